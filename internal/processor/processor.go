package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/notifier"
	"github.com/mauv0809/sportapp/internal/pubsub"
)

// New creates a new Processor. pubsub is only used to decode payloads; with
// dryRun the notifier logs instead of posting.
func New(catalog Catalog, users Users, notifier Notifier, counters metrics.MetricsStore, pubsub pubsub.PubSubClient, dryRun bool) *Processor {
	return &Processor{
		catalog:  catalog,
		users:    users,
		notifier: notifier,
		counters: counters,
		pubsub:   pubsub,
		dryRun:   dryRun,
	}
}

// SetPubSub replaces the decoding client. It lets an in-process client be built
// around Handle after the processor exists.
func (p *Processor) SetPubSub(c pubsub.PubSubClient) {
	p.pubsub = c
}

// Handle processes one delivered event. It satisfies pubsub.Handler. Unknown
// topics are acknowledged and dropped.
func (p *Processor) Handle(topic pubsub.EventType, data []byte) error {
	log.Debug("Processing event", "topic", topic, "bytes", len(data))
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	switch topic {
	case pubsub.EventReservationSaved, pubsub.EventReservationDeleted:
		var event pubsub.ReservationEvent
		if err := p.pubsub.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return p.handleReservation(ctx, topic, event)
	case pubsub.EventInvitationSent, pubsub.EventInvitationAnswered:
		var event pubsub.InvitationEvent
		if err := p.pubsub.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return p.handleInvitation(ctx, topic, event)
	default:
		log.Warn("Ignoring event with unknown topic", "topic", topic)
		return nil
	}
}

// handleReservation counts the event before notifying. A failed count is returned
// before anything is posted, so the redelivery does not post twice.
func (p *Processor) handleReservation(ctx context.Context, topic pubsub.EventType, event pubsub.ReservationEvent) error {
	r := p.describe(ctx, event)
	if topic == pubsub.EventReservationDeleted {
		if err := p.counters.Increment(ctx, metrics.KeyReservationsDeleted); err != nil {
			return fmt.Errorf("failed to count deleted reservation %s: %w", event.ReservationID, err)
		}
		if err := p.notifier.SendReservationDeleted(r, p.dryRun); err != nil {
			return fmt.Errorf("failed to notify deleted reservation %s: %w", event.ReservationID, err)
		}
		log.Info("Processed reservation deletion", "reservationID", event.ReservationID)
		return nil
	}

	if err := p.counters.Increment(ctx, metrics.KeyReservationsSaved); err != nil {
		return fmt.Errorf("failed to count saved reservation %s: %w", event.ReservationID, err)
	}
	if err := p.notifier.SendReservationSaved(r, p.dryRun); err != nil {
		return fmt.Errorf("failed to notify saved reservation %s: %w", event.ReservationID, err)
	}
	log.Info("Processed reservation", "reservationID", event.ReservationID, "created", event.Created)
	return nil
}

// describe resolves the playground of event for display. A failed lookup falls
// back to the ids carried in the event.
func (p *Processor) describe(ctx context.Context, event pubsub.ReservationEvent) notifier.Reservation {
	r := notifier.Reservation{
		ID:              event.ReservationID,
		Username:        event.Username,
		PlaygroundName:  event.PlaygroundID,
		SportName:       event.SportID,
		SportCenterName: event.SportCenterID,
		StartDateTime:   event.StartDateTime,
		EndDateTime:     event.EndDateTime,
		TotalPrice:      event.TotalPrice,
		Created:         event.Created,
	}
	playground, err := p.catalog.GetPlayground(ctx, event.PlaygroundID)
	if err != nil {
		log.Warn("Failed to resolve playground for notification", "error", err, "playgroundID", event.PlaygroundID)
		return r
	}
	r.PlaygroundName = playground.PlaygroundName
	r.SportName = playground.SportName
	r.SportEmoji = playground.SportEmoji
	r.SportCenterName = playground.SportCenter.Name
	return r
}

func (p *Processor) handleInvitation(ctx context.Context, topic pubsub.EventType, event pubsub.InvitationEvent) error {
	if topic == pubsub.EventInvitationSent {
		if err := p.counters.Increment(ctx, metrics.KeyInvitationsSent); err != nil {
			return fmt.Errorf("failed to count sent invitation %s: %w", event.NotificationID, err)
		}
		return nil
	}
	if model.NotificationStatus(event.Status) == model.StatusPending {
		return nil
	}

	answer := notifier.InvitationAnswer{
		ReservationID: event.ReservationID,
		Username:      event.ReceiverID,
		Status:        event.Status,
	}
	if u, err := p.users.GetUser(ctx, event.ReceiverID); err == nil {
		answer.Username = u.Username
	} else {
		log.Warn("Failed to resolve invitation receiver", "error", err, "receiverID", event.ReceiverID)
	}
	if err := p.notifier.SendInvitationAnswered(answer, p.dryRun); err != nil {
		return fmt.Errorf("failed to notify answered invitation %s: %w", event.NotificationID, err)
	}
	return nil
}
