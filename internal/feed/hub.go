package feed

import (
	"sync"

	"github.com/charmbracelet/log"
)

// MemoryHub is an in-process Hub.
type MemoryHub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*memorySub
}

var _ Hub = (*MemoryHub)(nil)

// NewMemoryHub creates an empty in-process hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{subs: make(map[uint64]*memorySub)}
}

type memorySub struct {
	hub    *MemoryHub
	id     uint64
	topics []Topic
	ch     chan struct{}
	once   sync.Once
}

func (s *memorySub) C() <-chan struct{} { return s.ch }

func (s *memorySub) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}

func (s *memorySub) matches(published []Topic) bool {
	for _, t := range s.topics {
		for _, p := range published {
			if t.Matches(p) {
				return true
			}
		}
	}
	return false
}

func (h *MemoryHub) Subscribe(topics ...Topic) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	sub := &memorySub{
		hub:    h,
		id:     h.nextID,
		topics: topics,
		ch:     make(chan struct{}, 1),
	}
	h.subs[sub.id] = sub
	return sub
}

func (h *MemoryHub) Publish(topics ...Topic) {
	if len(topics) == 0 {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	woken := 0
	for _, sub := range h.subs {
		if !sub.matches(topics) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
			// A signal is already pending.
		}
		woken++
	}
	log.Debug("Published change", "topics", topics, "subscribers", woken)
}

// Len returns the number of open subscriptions.
func (h *MemoryHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
