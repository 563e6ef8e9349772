package feed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = time.Second

func TestTopicMatches(t *testing.T) {
	assert.True(t, All(Users).Matches(Doc(Users, "u1")))
	assert.True(t, Doc(Users, "u1").Matches(All(Users)))
	assert.True(t, Doc(Users, "u1").Matches(Doc(Users, "u1")))
	assert.False(t, Doc(Users, "u1").Matches(Doc(Users, "u2")))
	assert.False(t, All(Users).Matches(All(Reviews)))
}

func TestTopicEncoding(t *testing.T) {
	topics := []Topic{Doc(PlaygroundReservations, "r1"), All(Notifications)}
	assert.Equal(t, topics, decodeTopics(encodeTopics(topics)))
	assert.Equal(t, Topic{Collection: ReservationSlots, Key: "p1"}, ParseTopic("reservationSlots/p1"))
}

func TestMemoryHubCoalesces(t *testing.T) {
	hub := NewMemoryHub()
	sub := hub.Subscribe(Doc(Users, "u1"))
	defer sub.Close()

	hub.Publish(Doc(Users, "u1"))
	hub.Publish(Doc(Users, "u1"))
	hub.Publish(Doc(Users, "u2"))

	select {
	case <-sub.C():
	case <-time.After(waitFor):
		t.Fatal("expected a signal")
	}
	select {
	case <-sub.C():
		t.Fatal("signals should have been coalesced")
	default:
	}

	sub.Close()
	assert.Equal(t, 0, hub.Len())
}

func TestWatch(t *testing.T) {
	hub := NewMemoryHub()
	calls := make(chan struct{}, 10)

	l := Watch(hub, []Topic{All(Sports)}, func(ctx context.Context) {
		calls <- struct{}{}
	})

	receive := func() {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(waitFor):
			t.Fatal("expected a callback")
		}
	}

	receive() // initial evaluation
	hub.Publish(Doc(Sports, "tennis"))
	receive()

	l.Unregister()
	l.Unregister()
	select {
	case <-l.Done():
	case <-time.After(waitFor):
		t.Fatal("listener goroutine did not exit")
	}
	assert.Equal(t, 0, hub.Len())
}

func TestWatchNestedReplacesInnerOnKeyChange(t *testing.T) {
	hub := NewMemoryHub()
	var foreignKey atomic.Value
	foreignKey.Store("p1")
	evaluations := make(chan string, 10)

	l := WatchNested(hub, []Topic{Doc(PlaygroundReservations, "r1")}, func(ctx context.Context, inner *Inner) {
		key := foreignKey.Load().(string)
		inner.Replace(key, Doc(PlaygroundSports, key))
		evaluations <- inner.Key()
	})
	defer l.Unregister()

	next := func() string {
		t.Helper()
		select {
		case key := <-evaluations:
			return key
		case <-time.After(waitFor):
			t.Fatal("expected an evaluation")
			return ""
		}
	}

	require.Equal(t, "p1", next())
	// outer + one inner subscription
	assert.Equal(t, 2, hub.Len())

	hub.Publish(Doc(PlaygroundSports, "p1"))
	assert.Equal(t, "p1", next())

	foreignKey.Store("p2")
	hub.Publish(Doc(PlaygroundReservations, "r1"))
	assert.Equal(t, "p2", next())
	assert.Equal(t, 2, hub.Len(), "the previous inner subscription must be closed")

	// The stale foreign key no longer wakes the listener.
	hub.Publish(Doc(PlaygroundSports, "p1"))
	select {
	case key := <-evaluations:
		t.Fatalf("unexpected evaluation for %s", key)
	case <-time.After(50 * time.Millisecond):
	}

	hub.Publish(Doc(PlaygroundSports, "p2"))
	assert.Equal(t, "p2", next())
}

func TestListenerAddCascades(t *testing.T) {
	hub := NewMemoryHub()
	parent := NewListener()
	child := Watch(hub, []Topic{All(Users)}, func(ctx context.Context) {})
	parent.Add(child)

	parent.Unregister()
	select {
	case <-child.Done():
	case <-time.After(waitFor):
		t.Fatal("child was not released")
	}

	late := Watch(hub, []Topic{All(Users)}, func(ctx context.Context) {})
	parent.Add(late)
	select {
	case <-late.Done():
	case <-time.After(waitFor):
		t.Fatal("child added after release was not released")
	}
}

func TestDeliverSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	called := 0
	cb := func(v int, err error) { called += v }

	Deliver(ctx, cb, 1, nil)
	cancel()
	Deliver(ctx, cb, 1, nil)
	assert.Equal(t, 1, called)
}

func TestFirst(t *testing.T) {
	hub := NewMemoryHub()
	var l *Listener
	value, err := First(context.Background(), func(cb func(string, error)) *Listener {
		l = Watch(hub, []Topic{All(Users)}, func(ctx context.Context) {
			Deliver(ctx, cb, "ready", nil)
		})
		return l
	})
	require.NoError(t, err)
	assert.Equal(t, "ready", value)

	select {
	case <-l.Done():
	case <-time.After(waitFor):
		t.Fatal("listener was not released")
	}
}
