package pubsub

import (
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// localClient hands events straight to an in-process handler. It is used when no
// broker is configured so that consumers still run.
type localClient struct {
	handler Handler
}

// NewLocal returns a client delivering every event to handler on a new goroutine.
// A nil handler drops events.
func NewLocal(handler Handler) PubSubClient {
	return &localClient{handler: handler}
}

func (c *localClient) SendMessage(topic EventType, data any) error {
	body, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	if c.handler == nil {
		log.Debug("Dropping event, no handler", "topic", topic)
		return nil
	}
	go func() {
		if err := c.handler(topic, body); err != nil {
			log.Error("Failed to handle event", "error", err, "topic", topic)
		}
	}()
	return nil
}

func (c *localClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *localClient) Close() {}
