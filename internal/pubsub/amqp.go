package pubsub

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	DefaultExchange = "sportapp.events"
	contentType     = "application/msgpack"
)

// NewAMQP connects to a RabbitMQ broker and declares a durable topic exchange that
// events are published to with their type as routing key.
func NewAMQP(url, exchange string) (*AMQPClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	log.Info("Connected to AMQP broker", "exchange", exchange)
	return &AMQPClient{conn: conn, channel: ch, exchange: exchange}, nil
}

func (c *AMQPClient) SendMessage(topic EventType, data any) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	body, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	err = c.channel.PublishWithContext(ctx, c.exchange, string(topic), false, false, amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Debug("SendMessage", "topic", topic, "exchange", c.exchange)
	return nil
}

func (c *AMQPClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// Consume binds queue to every event type and feeds deliveries to handler until
// ctx is done. A delivery is acked when handler succeeds and requeued once
// otherwise.
func (c *AMQPClient) Consume(ctx context.Context, queue string, handler Handler) error {
	q, err := c.channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	for _, event := range Events {
		if err := c.channel.QueueBind(q.Name, string(event), c.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", q.Name, event, err)
		}
	}
	deliveries, err := c.channel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", q.Name, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					log.Warn("AMQP delivery channel closed", "queue", q.Name)
					return
				}
				if err := handler(EventType(d.RoutingKey), d.Body); err != nil {
					log.Error("Failed to handle event", "error", err, "topic", d.RoutingKey)
					d.Nack(false, !d.Redelivered)
					continue
				}
				d.Ack(false)
			}
		}
	}()
	return nil
}

func (c *AMQPClient) Close() {
	if err := c.channel.Close(); err != nil {
		log.Error("Failed to close amqp channel", "error", err)
	}
	if err := c.conn.Close(); err != nil {
		log.Error("Failed to close amqp connection", "error", err)
	}
}
