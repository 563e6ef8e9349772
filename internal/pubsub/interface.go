package pubsub

// PubSubClient publishes domain events and decodes delivered ones.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close()
}
