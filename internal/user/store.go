package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// New creates a new UserStore. Changes are published on hub.
func New(db *sql.DB, hub feed.Hub) UserStore {
	return &store{
		db:  db,
		hub: hub,
	}
}

// GetUser returns the user with its achievements computed from the reservations
// the user took part in.
func (s *store) GetUser(ctx context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.achievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Achievements = achievements
	return u, nil
}

// WatchUser delivers the user once and again after every change to its document.
func (s *store) WatchUser(userID string, cb func(*model.User, error)) *feed.Listener {
	return feed.Watch(s.hub, []feed.Topic{feed.Doc(feed.Users, userID)}, func(ctx context.Context) {
		u, err := s.GetUser(ctx, userID)
		feed.Deliver(ctx, cb, u, err)
	})
}

func (s *store) UserExists(ctx context.Context, userID string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&n); err != nil {
		return false, errs.Default("UserExists", err)
	}
	return n > 0, nil
}

func (s *store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n); err != nil {
		return false, errs.Default("UsernameExists", err)
	}
	return n > 0, nil
}

// InsertUser stores a new user under the id assigned by authentication.
func (s *store) InsertUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		return errs.Default("InsertUser", errors.New("user id is required"))
	}
	levels, err := json.Marshal(sportLevels(u.SportLevels))
	if err != nil {
		return errs.Default("InsertUser", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Username, u.Gender, u.Age, u.Location, u.Bio, string(levels), u.ImageURL, u.NotificationsToken)
	if err != nil {
		log.Error("Failed to insert user", "error", err, "userID", u.ID)
		return errs.Default("InsertUser", err)
	}
	s.hub.Publish(feed.Doc(feed.Users, u.ID))
	return nil
}

// UpdateUser updates the profile and propagates a username change to every
// denormalized copy: review authors, reservation participants and reservation
// owners. The affected documents are resolved before the transaction.
func (s *store) UpdateUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "UpdateUser"
	if u.ID == "" {
		return errs.Default(op, errors.New("user id is required"))
	}
	current, err := s.getUser(ctx, u.ID)
	if err != nil {
		return err
	}
	oldPair := model.Participant{ID: u.ID, Username: current.Username}
	newPair := model.Participant{ID: u.ID, Username: u.Username}

	reviewIDs, err := database.QueryStrings(ctx, s.db, "SELECT id FROM reviews WHERE user_id = ?", u.ID)
	if err != nil {
		return errs.Default(op, fmt.Errorf("failed to retrieve user reviews: %w", err))
	}
	participantIDs, err := database.QueryStrings(ctx, s.db, `
		SELECT DISTINCT r.id FROM playground_reservations r, json_each(r.participants_json) p
		WHERE json_extract(p.value, '$.id') = ? AND json_extract(p.value, '$.username') = ?`,
		oldPair.ID, oldPair.Username)
	if err != nil {
		return errs.Default(op, fmt.Errorf("failed to retrieve participant reservations: %w", err))
	}
	ownerIDs, err := database.QueryStrings(ctx, s.db, "SELECT id FROM playground_reservations WHERE user_id = ?", u.ID)
	if err != nil {
		return errs.Default(op, fmt.Errorf("failed to retrieve owned reservations: %w", err))
	}

	levels, err := json.Marshal(sportLevels(u.SportLevels))
	if err != nil {
		return errs.Default(op, err)
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE users SET first_name = ?, last_name = ?, username = ?, gender = ?, age = ?,
				location = ?, bio = ?, sport_levels_json = ?
			WHERE id = ?`,
			u.FirstName, u.LastName, u.Username, u.Gender, u.Age, u.Location, u.Bio, string(levels), u.ID)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if len(reviewIDs) > 0 {
			args := append([]any{u.Username}, database.Args(reviewIDs)...)
			if _, err := tx.ExecContext(ctx, "UPDATE reviews SET username = ? WHERE id IN ("+database.Placeholders(len(reviewIDs))+")", args...); err != nil {
				return fmt.Errorf("failed to update review usernames: %w", err)
			}
		}
		for _, id := range participantIDs {
			if err := replaceParticipant(ctx, tx, id, oldPair, newPair); err != nil {
				return err
			}
		}
		if len(ownerIDs) > 0 {
			args := append([]any{u.Username}, database.Args(ownerIDs)...)
			if _, err := tx.ExecContext(ctx, "UPDATE playground_reservations SET username = ? WHERE id IN ("+database.Placeholders(len(ownerIDs))+")", args...); err != nil {
				return fmt.Errorf("failed to update owner usernames: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update user", "error", err, "userID", u.ID)
		return errs.Default(op, err)
	}

	topics := []feed.Topic{feed.Doc(feed.Users, u.ID)}
	for _, id := range reviewIDs {
		topics = append(topics, feed.Doc(feed.Reviews, id))
	}
	for _, id := range append(participantIDs, ownerIDs...) {
		topics = append(topics, feed.Doc(feed.PlaygroundReservations, id))
	}
	s.hub.Publish(topics...)
	log.Info("Updated user", "userID", u.ID, "reviews", len(reviewIDs), "participations", len(participantIDs), "owned", len(ownerIDs))
	return nil
}

// replaceParticipant removes every oldPair from the reservation's participants and
// then adds newPair once.
func replaceParticipant(ctx context.Context, tx *sql.Tx, reservationID string, oldPair, newPair model.Participant) error {
	var raw string
	err := tx.QueryRowContext(ctx, "SELECT participants_json FROM playground_reservations WHERE id = ?", reservationID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		// Deleted since it was resolved.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read participants of %s: %w", reservationID, err)
	}
	var participants []model.Participant
	if err := json.Unmarshal([]byte(raw), &participants); err != nil {
		return errs.Deserialization("UpdateUser", reservationID, err)
	}
	participants = model.AddParticipant(model.RemoveParticipant(participants, oldPair), newPair)
	encoded, err := json.Marshal(participants)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE playground_reservations SET participants_json = ? WHERE id = ?", string(encoded), reservationID); err != nil {
		return fmt.Errorf("failed to update participants of %s: %w", reservationID, err)
	}
	return nil
}

func (s *store) UpdateUserToken(ctx context.Context, userID, token string) error {
	return s.updateColumn(ctx, "UpdateUserToken", "notifications_token", userID, token)
}

func (s *store) UpdateUserImageURL(ctx context.Context, userID, imageURL string) error {
	return s.updateColumn(ctx, "UpdateUserImageURL", "image_url", userID, imageURL)
}

func (s *store) updateColumn(ctx context.Context, op, column, userID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE users SET "+column+" = ? WHERE id = ?", value, userID)
	if err != nil {
		log.Error("Failed to update user", "error", err, "userID", userID, "column", column)
		return errs.Default(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound(op, userID)
	}
	s.hub.Publish(feed.Doc(feed.Users, userID))
	return nil
}

// WatchUsersToSendInvitationTo lists every user except the sender and those who
// already received an invitation for the reservation. The user list is read once;
// the exclusion follows the reservation's notifications.
func (s *store) WatchUsersToSendInvitationTo(senderID, reservationID string, cb func([]model.User, error)) *feed.Listener {
	var (
		candidates []model.User
		loadErr    error
		loaded     bool
	)
	return feed.Watch(s.hub, []feed.Topic{feed.All(feed.Notifications)}, func(ctx context.Context) {
		if !loaded {
			candidates, loadErr = s.allUsersExcept(ctx, senderID)
			loaded = true
		}
		if loadErr != nil {
			feed.Deliver[[]model.User](ctx, cb, nil, loadErr)
			return
		}
		invited, err := database.QueryStrings(ctx, s.db, "SELECT receiver_uid FROM notifications WHERE type = ? AND reservation_id = ?", model.TypeInvitation, reservationID)
		if err != nil {
			feed.Deliver[[]model.User](ctx, cb, nil, errs.Default("GetAllUsersToSendInvitationTo", err))
			return
		}
		excluded := make(map[string]bool, len(invited))
		for _, id := range invited {
			excluded[id] = true
		}
		users := make([]model.User, 0, len(candidates))
		for _, u := range candidates {
			if !excluded[u.ID] {
				users = append(users, u)
			}
		}
		feed.Deliver(ctx, cb, users, nil)
	})
}

func (s *store) allUsersExcept(ctx context.Context, senderID string) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users WHERE id != ? ORDER BY username", senderID)
	if err != nil {
		return nil, errs.Default("GetAllUsersToSendInvitationTo", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Default("GetAllUsersToSendInvitationTo", err)
	}
	return users, nil
}

func (s *store) getUser(ctx context.Context, userID string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetUser", userID)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *store) achievements(ctx context.Context, userID string) (map[model.Achievement]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.sport_id FROM playground_reservations r, json_each(r.participants_json) p
		WHERE json_extract(p.value, '$.id') = ? AND r.end_date_time < ?`,
		userID, model.FormatDateTime(time.Now()))
	if err != nil {
		return nil, errs.Default("GetUser", fmt.Errorf("failed to retrieve played reservations: %w", err))
	}
	sports := make(map[string]bool)
	matches := 0
	for rows.Next() {
		var id, sportID string
		if err := rows.Scan(&id, &sportID); err != nil {
			rows.Close()
			return nil, errs.Default("GetUser", err)
		}
		sports[sportID] = true
		matches++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.Default("GetUser", fmt.Errorf("failed to iterate played reservations: %w", err))
	}

	var totalSports int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sports").Scan(&totalSports); err != nil {
		return nil, errs.Default("GetUser", err)
	}
	return buildAchievements(len(sports), matches, totalSports), nil
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u               model.User
		levels          string
		imageURL, token sql.NullString
	)
	err := scanner.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Gender, &u.Age, &u.Location, &u.Bio, &levels, &imageURL, &token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errs.Default("GetUser", err)
	}
	if err := json.Unmarshal([]byte(levels), &u.SportLevels); err != nil {
		return nil, errs.Deserialization("GetUser", u.ID, err)
	}
	if imageURL.Valid {
		u.ImageURL = &imageURL.String
	}
	if token.Valid {
		u.NotificationsToken = &token.String
	}
	return &u, nil
}

func sportLevels(levels []model.SportLevel) []model.SportLevel {
	if levels == nil {
		return []model.SportLevel{}
	}
	return levels
}
