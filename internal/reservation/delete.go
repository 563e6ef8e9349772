package reservation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/pubsub"
)

// DeleteReservation removes the reservation with its slot records and cancels
// every invitation sent for it.
func (s *store) DeleteReservation(ctx context.Context, reservationID string) error {
	const op = "DeleteReservation"

	r, err := s.GetReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	slotIDs, err := database.QueryStrings(ctx, s.db, "SELECT id FROM reservation_slots WHERE reservation_id = ?", reservationID)
	if err != nil {
		return errs.Unexpected(op, err)
	}
	equipmentSlotIDs, err := database.QueryStrings(ctx, s.db, "SELECT id FROM equipment_reservation_slots WHERE playground_reservation_id = ?", reservationID)
	if err != nil {
		return errs.Unexpected(op, err)
	}
	notificationIDs, err := database.QueryStrings(ctx, s.db, "SELECT id FROM notifications WHERE reservation_id = ?", reservationID)
	if err != nil {
		return errs.Unexpected(op, err)
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteByIDs(ctx, tx, "reservation_slots", slotIDs); err != nil {
			return err
		}
		if err := deleteByIDs(ctx, tx, "equipment_reservation_slots", equipmentSlotIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM playground_reservations WHERE id = ?", reservationID); err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}
		if len(notificationIDs) == 0 {
			return nil
		}
		args := append([]any{string(model.StatusCanceled)}, database.Args(notificationIDs)...)
		if _, err := tx.ExecContext(ctx, "UPDATE notifications SET status = ? WHERE id IN ("+database.Placeholders(len(notificationIDs))+")", args...); err != nil {
			return fmt.Errorf("failed to cancel invitations: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to delete reservation", "error", err, "reservationID", reservationID)
		return errs.Unexpected(op, err)
	}

	topics := []feed.Topic{
		feed.Doc(feed.PlaygroundReservations, reservationID),
		feed.Doc(feed.ReservationSlots, reservationID),
		feed.Doc(feed.EquipmentReservationSlots, reservationID),
	}
	for _, id := range notificationIDs {
		topics = append(topics, feed.Doc(feed.Notifications, id))
	}
	s.hub.Publish(topics...)
	s.metrics.IncReservationsDeleted()

	event := pubsub.ReservationEvent{
		ReservationID: r.ID,
		UserID:        r.User.ID,
		Username:      r.User.Username,
		PlaygroundID:  r.PlaygroundID,
		SportID:       r.SportID,
		SportCenterID: r.SportCenterID,
		StartDateTime: r.StartDateTime,
		EndDateTime:   r.EndDateTime,
		TotalPrice:    r.TotalPrice,
	}
	if err := s.events.SendMessage(pubsub.EventReservationDeleted, event); err != nil {
		log.Error("Failed to publish reservation event", "error", err, "reservationID", reservationID)
	}
	log.Info("Deleted reservation", "reservationID", reservationID, "canceledInvitations", len(notificationIDs))
	return nil
}
