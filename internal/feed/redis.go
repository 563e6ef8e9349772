package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "sportapp:changes"

// RedisHub relays publishes through a Redis channel so listeners of every
// instance sharing the database are woken. Subscriptions stay in-process.
type RedisHub struct {
	local   *MemoryHub
	rdb     *redis.Client
	channel string
	cancel  context.CancelFunc
}

var _ Hub = (*RedisHub)(nil)

// NewRedisHub subscribes to channel and starts relaying its messages to local
// listeners.
func NewRedisHub(ctx context.Context, rdb *redis.Client, channel string) (*RedisHub, error) {
	ctx, cancel := context.WithCancel(ctx)
	ps := rdb.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		cancel()
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to redis channel %s: %w", channel, err)
	}

	h := &RedisHub{
		local:   NewMemoryHub(),
		rdb:     rdb,
		channel: channel,
		cancel:  cancel,
	}
	go h.relay(ctx, ps)
	log.Info("Change feed relayed through Redis", "channel", channel)
	return h, nil
}

func (h *RedisHub) relay(ctx context.Context, ps *redis.PubSub) {
	defer ps.Close()
	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			h.local.Publish(decodeTopics(msg.Payload)...)
		}
	}
}

func (h *RedisHub) Publish(topics ...Topic) {
	if len(topics) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.rdb.Publish(ctx, h.channel, encodeTopics(topics)).Err(); err != nil {
		log.Error("Failed to publish change to redis, delivering locally", "error", err, "channel", h.channel)
		h.local.Publish(topics...)
	}
}

func (h *RedisHub) Subscribe(topics ...Topic) Subscription {
	return h.local.Subscribe(topics...)
}

// Len returns the number of open local subscriptions.
func (h *RedisHub) Len() int { return h.local.Len() }

// Close stops relaying.
func (h *RedisHub) Close() {
	h.cancel()
}

func encodeTopics(topics []Topic) string {
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\n")
}

func decodeTopics(payload string) []Topic {
	var topics []Topic
	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			continue
		}
		topics = append(topics, ParseTopic(line))
	}
	return topics
}
