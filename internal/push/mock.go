package push

import (
	"context"
	"sync"
)

// MockPusher is a mock implementation of Pusher for testing.
// It is safe for concurrent use.
type MockPusher struct {
	mu sync.Mutex

	SendFunc  func(ctx context.Context, msg Message) error
	SendCalls []Message
}

var _ Pusher = (*MockPusher)(nil)

func NewMock() *MockPusher {
	return &MockPusher{}
}

func (m *MockPusher) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.SendCalls = append(m.SendCalls, msg)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

// Calls returns a copy of the recorded messages.
func (m *MockPusher) Calls() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.SendCalls...)
}
