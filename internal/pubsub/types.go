package pubsub

import (
	"cloud.google.com/go/pubsub"
	amqp "github.com/rabbitmq/amqp091-go"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// AMQPClient publishes events to a RabbitMQ topic exchange.
type AMQPClient struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// EventType represents the type of event/message sent via pubsub. It doubles as
// the topic name (Pub/Sub) and routing key (AMQP).
type EventType string

const (
	EventReservationSaved   EventType = "reservation-saved"
	EventReservationDeleted EventType = "reservation-deleted"
	EventInvitationSent     EventType = "invitation-sent"
	EventInvitationAnswered EventType = "invitation-answered"
)

// Events lists every event type, in publishing order.
var Events = []EventType{EventReservationSaved, EventReservationDeleted, EventInvitationSent, EventInvitationAnswered}

// ReservationEvent is published after a reservation is saved or deleted.
type ReservationEvent struct {
	ReservationID string  `msgpack:"reservation_id"`
	UserID        string  `msgpack:"user_id"`
	Username      string  `msgpack:"username"`
	PlaygroundID  string  `msgpack:"playground_id"`
	SportID       string  `msgpack:"sport_id"`
	SportCenterID string  `msgpack:"sport_center_id"`
	StartDateTime string  `msgpack:"start_date_time"`
	EndDateTime   string  `msgpack:"end_date_time"`
	TotalPrice    float64 `msgpack:"total_price"`
	Created       bool    `msgpack:"created"`
}

// InvitationEvent is published after an invitation is sent or answered.
type InvitationEvent struct {
	NotificationID string `msgpack:"notification_id"`
	ReservationID  string `msgpack:"reservation_id"`
	SenderID       string `msgpack:"sender_id"`
	ReceiverID     string `msgpack:"receiver_id"`
	Status         string `msgpack:"status"`
}

// PushMessage is the envelope of a Pub/Sub push subscription request.
type PushMessage struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// Handler consumes one delivered event.
type Handler func(topic EventType, data []byte) error
