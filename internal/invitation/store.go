package invitation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/push"
	"github.com/mauv0809/sportapp/internal/user"
)

// New creates a new InvitationStore.
func New(db *sql.DB, hub feed.Hub, users user.UserStore, pusher push.Pusher, events pubsub.PubSubClient, metrics metrics.Metrics) InvitationStore {
	return &store{
		db:      db,
		hub:     hub,
		users:   users,
		pusher:  pusher,
		events:  events,
		metrics: metrics,
	}
}

// SendInvitation stores n as a new PENDING invitation and pushes it to the
// receiver's device. A failure before the invitation is stored is
// InvitationNotSaved; a failure after it is PushNotSent and the returned id is
// still valid. A receiver without a device token is not an error.
func (s *store) SendInvitation(ctx context.Context, n model.Notification) (string, error) {
	const op = "SendInvitation"

	sender, err := s.users.GetUser(ctx, n.SenderUID)
	if err != nil {
		log.Error("Failed to retrieve invitation sender", "error", err, "senderID", n.SenderUID)
		return "", errs.InvitationNotSaved(op, err)
	}

	n.ID = uuid.New().String()
	n.Type = model.TypeInvitation
	n.Status = model.StatusPending
	n.ProfileURL = sender.ImageURL
	if n.Timestamp == "" {
		n.Timestamp = model.FormatDateTime(time.Now())
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, string(n.Type), n.SenderUID, n.ReceiverUID, n.ReservationID, n.Description, n.Timestamp, string(n.Status), n.ProfileURL)
	if err != nil {
		log.Error("Failed to save invitation", "error", err, "senderID", n.SenderUID, "receiverID", n.ReceiverUID)
		return "", errs.InvitationNotSaved(op, err)
	}
	s.hub.Publish(feed.Doc(feed.Notifications, n.ID))
	s.metrics.IncInvitationsSent()
	s.publish(pubsub.EventInvitationSent, n)

	receiver, err := s.users.GetUser(ctx, n.ReceiverUID)
	if err != nil {
		log.Error("Failed to retrieve invitation receiver", "error", err, "receiverID", n.ReceiverUID)
		return n.ID, errs.PushNotSent(op, err)
	}
	if receiver.NotificationsToken == nil || *receiver.NotificationsToken == "" {
		log.Debug("Receiver has no device token, skipping push", "receiverID", n.ReceiverUID)
		return n.ID, nil
	}

	msg := push.Message{
		To: *receiver.NotificationsToken,
		Data: push.Data{
			Action:        pushAction,
			Title:         pushTitle,
			Message:       n.Description,
			ReservationID: n.ReservationID,
			Status:        string(model.StatusPending),
			Timestamp:     n.Timestamp,
		},
	}
	if err := s.pusher.Send(ctx, msg); err != nil {
		s.metrics.IncPushFailed()
		log.Error("Failed to push invitation", "error", err, "notificationID", n.ID)
		return n.ID, errs.PushNotSent(op, err)
	}
	s.metrics.IncPushSent()
	log.Info("Sent invitation", "notificationID", n.ID, "reservationID", n.ReservationID)
	return n.ID, nil
}

// UpdateInvitationStatus records the receiver's answer and keeps the reservation's
// participants in step, in one transaction. userID is the authenticated caller and
// must be the receiver. The stored status must still be oldStatus. Participants
// change on the reservation the invitation was sent for; a non-empty
// reservationID naming another reservation is NotFound.
func (s *store) UpdateInvitationStatus(ctx context.Context, userID, notificationID string, oldStatus, newStatus model.NotificationStatus, reservationID string) error {
	const op = "UpdateInvitationStatus"

	if userID == "" {
		return errs.Unauthenticated(op)
	}
	effect, err := Transition(oldStatus, newStatus)
	if err != nil {
		return err
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx, "SELECT username FROM users WHERE id = ?", userID).Scan(&username)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("GetUser", userID)
		}
		if err != nil {
			return fmt.Errorf("failed to read user: %w", err)
		}

		var stored, receiver, invitedTo string
		err = tx.QueryRowContext(ctx, "SELECT status, receiver_uid, reservation_id FROM notifications WHERE id = ?", notificationID).Scan(&stored, &receiver, &invitedTo)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound(op, notificationID)
		}
		if err != nil {
			return fmt.Errorf("failed to read notification: %w", err)
		}
		if receiver != userID {
			return errs.Unauthenticated(op)
		}
		if reservationID != "" && reservationID != invitedTo {
			log.Warn("Invitation answered for another reservation", "notificationID", notificationID, "invitedTo", invitedTo, "reservationID", reservationID)
			return errs.NotFound(op, notificationID+"@"+reservationID)
		}
		reservationID = invitedTo
		if model.NotificationStatus(stored) != oldStatus {
			return &errs.InvalidTransitionError{From: stored, To: string(newStatus)}
		}

		if _, err := tx.ExecContext(ctx, "UPDATE notifications SET status = ? WHERE id = ?", string(newStatus), notificationID); err != nil {
			return fmt.Errorf("failed to update notification status: %w", err)
		}
		if effect == KeepParticipants {
			return nil
		}
		return updateParticipants(ctx, tx, reservationID, model.Participant{ID: userID, Username: username}, effect)
	})
	if err != nil {
		switch errs.KindOf(err) {
		case errs.KindNotFound, errs.KindInvalidTransition, errs.KindUnauthenticated, errs.KindDeserialization:
			return err
		}
		log.Error("Failed to update invitation status", "error", err, "notificationID", notificationID)
		return errs.Default(op, err)
	}

	s.hub.Publish(feed.Doc(feed.Notifications, notificationID), feed.Doc(feed.PlaygroundReservations, reservationID))
	s.metrics.IncInvitationTransitions(string(newStatus))
	s.publish(pubsub.EventInvitationAnswered, model.Notification{
		ID:            notificationID,
		ReceiverUID:   userID,
		ReservationID: reservationID,
		Status:        newStatus,
	})
	log.Info("Updated invitation status", "notificationID", notificationID, "from", oldStatus, "to", newStatus, "participants", effect)
	return nil
}

// updateParticipants adds p once or removes every equal pair.
func updateParticipants(ctx context.Context, tx *sql.Tx, reservationID string, p model.Participant, effect Effect) error {
	var raw string
	err := tx.QueryRowContext(ctx, "SELECT participants_json FROM playground_reservations WHERE id = ?", reservationID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("GetReservation", reservationID)
	}
	if err != nil {
		return fmt.Errorf("failed to read participants: %w", err)
	}
	var participants []model.Participant
	if err := json.Unmarshal([]byte(raw), &participants); err != nil {
		return errs.Deserialization("UpdateInvitationStatus", reservationID, err)
	}

	switch effect {
	case AddParticipant:
		participants = model.AddParticipant(participants, p)
	case RemoveParticipant:
		participants = model.RemoveParticipant(participants, p)
	}
	encoded, err := json.Marshal(participants)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE playground_reservations SET participants_json = ? WHERE id = ?", string(encoded), reservationID); err != nil {
		return fmt.Errorf("failed to update participants: %w", err)
	}
	return nil
}

func (s *store) GetNotification(ctx context.Context, notificationID string) (*model.Notification, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+notificationColumns+" FROM notifications WHERE id = ?", notificationID)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetNotification", notificationID)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *store) DeleteNotification(ctx context.Context, notificationID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", notificationID)
	if err != nil {
		return errs.Default("DeleteNotification", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("DeleteNotification", notificationID)
	}
	s.hub.Publish(feed.Doc(feed.Notifications, notificationID))
	return nil
}

// WatchUserNotifications lists the notifications addressed to the user whose
// reservation has not started yet, newest first. Older ones are hidden, not
// deleted.
func (s *store) WatchUserNotifications(userID string, cb func([]model.Notification, error)) *feed.Listener {
	topics := []feed.Topic{feed.All(feed.Notifications), feed.All(feed.PlaygroundReservations)}
	return feed.Watch(s.hub, topics, func(ctx context.Context) {
		notifications, err := s.userNotifications(ctx, userID, time.Now())
		feed.Deliver(ctx, cb, notifications, err)
	})
}

func (s *store) userNotifications(ctx context.Context, userID string, now time.Time) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.type, n.sender_uid, n.receiver_uid, n.reservation_id, n.description, n.timestamp, n.status, n.profile_url
		FROM notifications n
		JOIN playground_reservations r ON r.id = n.reservation_id
		WHERE n.receiver_uid = ? AND r.start_date_time > ?
		ORDER BY n.timestamp DESC, n.id`,
		userID, model.FormatDateTime(now))
	if err != nil {
		return nil, errs.Default("GetUserNotifications", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func scanNotification(scanner interface{ Scan(...any) error }) (*model.Notification, error) {
	var (
		n          model.Notification
		kind       string
		status     string
		profileURL sql.NullString
	)
	err := scanner.Scan(&n.ID, &kind, &n.SenderUID, &n.ReceiverUID, &n.ReservationID, &n.Description, &n.Timestamp, &status, &profileURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errs.Default("GetNotification", err)
	}
	n.Type = model.NotificationType(kind)
	n.Status = model.NotificationStatus(status)
	if !n.Status.Valid() {
		return nil, errs.Deserialization("GetNotification", n.ID, fmt.Errorf("unknown status %q", status))
	}
	if profileURL.Valid {
		n.ProfileURL = &profileURL.String
	}
	return &n, nil
}

func (s *store) publish(topic pubsub.EventType, n model.Notification) {
	event := pubsub.InvitationEvent{
		NotificationID: n.ID,
		ReservationID:  n.ReservationID,
		SenderID:       n.SenderUID,
		ReceiverID:     n.ReceiverUID,
		Status:         string(n.Status),
	}
	if err := s.events.SendMessage(topic, event); err != nil {
		log.Error("Failed to publish invitation event", "error", err, "notificationID", n.ID)
	}
}
