package feed

import (
	"context"
	"sync"
)

// Listener is the handle of a live subscription. Unregister releases it together
// with every child added to it.
type Listener struct {
	mu           sync.Mutex
	cancel       context.CancelFunc
	children     []*Listener
	unregistered bool
	done         chan struct{}
}

// NewListener returns an empty handle that only groups children.
func NewListener() *Listener {
	done := make(chan struct{})
	close(done)
	return &Listener{done: done}
}

// Add attaches child so that it is released with l. A child added after l was
// released is released immediately.
func (l *Listener) Add(child *Listener) {
	if child == nil {
		return
	}
	l.mu.Lock()
	if l.unregistered {
		l.mu.Unlock()
		child.Unregister()
		return
	}
	l.children = append(l.children, child)
	l.mu.Unlock()
}

// Unregister stops the subscription. It is safe to call more than once and from
// inside the listener's own callback. A callback already running completes, no
// new one starts.
func (l *Listener) Unregister() {
	l.mu.Lock()
	if l.unregistered {
		l.mu.Unlock()
		return
	}
	l.unregistered = true
	children := l.children
	l.children = nil
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, child := range children {
		child.Unregister()
	}
}

// Done is closed once the listener's goroutine has exited.
func (l *Listener) Done() <-chan struct{} { return l.done }

// Inner is the subscription a nested listener derives from its outer document.
// Only one inner subscription is open at a time.
type Inner struct {
	hub Hub
	key string
	sub Subscription
}

// Replace points the inner subscription at topics. When key differs from the
// current one the previous subscription is closed before the new one is opened;
// an unchanged key keeps the current subscription.
func (i *Inner) Replace(key string, topics ...Topic) {
	if i.sub != nil && i.key == key {
		return
	}
	i.Close()
	i.key = key
	i.sub = i.hub.Subscribe(topics...)
}

// Key returns the foreign key the inner subscription was opened for.
func (i *Inner) Key() string { return i.key }

// C is nil, and so never ready, while no inner subscription is open.
func (i *Inner) C() <-chan struct{} {
	if i.sub == nil {
		return nil
	}
	return i.sub.C()
}

// Close releases the inner subscription, if any.
func (i *Inner) Close() {
	if i.sub != nil {
		i.sub.Close()
		i.sub = nil
	}
	i.key = ""
}

// Watch runs run once immediately and again after every change to topics, on a
// single goroutine, until the returned listener is unregistered.
func Watch(hub Hub, topics []Topic, run func(ctx context.Context)) *Listener {
	return WatchNested(hub, topics, func(ctx context.Context, _ *Inner) { run(ctx) })
}

// WatchNested is Watch with an inner subscription owned by the same goroutine.
// run re-evaluates the whole view and calls inner.Replace when the foreign key read
// from the outer document changes, so a stale inner subscription never fires.
func WatchNested(hub Hub, topics []Topic, run func(ctx context.Context, inner *Inner)) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Listener{cancel: cancel, done: make(chan struct{})}

	// Subscribe before the first evaluation so no change in between is missed.
	outer := hub.Subscribe(topics...)
	inner := &Inner{hub: hub}

	go func() {
		defer close(l.done)
		defer outer.Close()
		defer inner.Close()
		for {
			run(ctx, inner)
			select {
			case <-ctx.Done():
				return
			case <-outer.C():
			case <-inner.C():
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return l
}

// Deliver invokes cb unless the listener owning ctx was unregistered.
func Deliver[T any](ctx context.Context, cb func(T, error), value T, err error) {
	if ctx.Err() != nil {
		return
	}
	cb(value, err)
}

// First registers a live query, waits for its first result and releases it.
func First[T any](ctx context.Context, watch func(cb func(T, error)) *Listener) (T, error) {
	type result struct {
		value T
		err   error
	}
	results := make(chan result, 1)
	l := watch(func(value T, err error) {
		select {
		case results <- result{value, err}:
		default:
		}
	})
	defer l.Unregister()

	select {
	case r := <-results:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
