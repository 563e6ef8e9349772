package feed

// Hub delivers change signals from writers to live listeners.
type Hub interface {
	// Publish wakes every subscription matching one of the topics.
	Publish(topics ...Topic)
	// Subscribe returns a subscription woken by matching publishes.
	Subscribe(topics ...Topic) Subscription
}

// Subscription is a coalescing change signal. Several publishes that happen
// before the receiver drains C are delivered as one signal.
type Subscription interface {
	C() <-chan struct{}
	Close()
}
