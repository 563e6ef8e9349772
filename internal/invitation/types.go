package invitation

import (
	"database/sql"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/push"
	"github.com/mauv0809/sportapp/internal/user"
)

type store struct {
	db      *sql.DB
	hub     feed.Hub
	users   user.UserStore
	pusher  push.Pusher
	events  pubsub.PubSubClient
	metrics metrics.Metrics
}

// Effect is what a status change does to the reservation's participants.
type Effect int

const (
	KeepParticipants Effect = iota
	AddParticipant
	RemoveParticipant
)

func (e Effect) String() string {
	switch e {
	case AddParticipant:
		return "add"
	case RemoveParticipant:
		return "remove"
	default:
		return "keep"
	}
}

const (
	pushAction = "invitation"
	pushTitle  = "New Invitation"
)

const notificationColumns = `id, type, sender_uid, receiver_uid, reservation_id, description, timestamp, status, profile_url`
