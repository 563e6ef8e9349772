package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/sportapp/internal/database"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// New creates a new ReviewStore.
func New(db *sql.DB, hub feed.Hub) ReviewStore {
	return &store{
		db:  db,
		hub: hub,
	}
}

// WatchReviewByUserAndPlayground follows the review a user wrote for a playground.
// A missing review is reported as NotFound.
func (s *store) WatchReviewByUserAndPlayground(userID, playgroundID string, cb func(*model.Review, error)) *feed.Listener {
	return feed.Watch(s.hub, []feed.Topic{feed.All(feed.Reviews)}, func(ctx context.Context) {
		s.mu.RLock()
		row := s.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE user_id = ? AND playground_id = ?", userID, playgroundID)
		r, err := scanReview(row)
		s.mu.RUnlock()
		if errors.Is(err, sql.ErrNoRows) {
			err = errs.NotFound("GetReviewByUserAndPlayground", userID+"/"+playgroundID)
		} else if err != nil {
			err = errs.Default("GetReviewByUserAndPlayground", err)
		}
		feed.Deliver(ctx, cb, r, err)
	})
}

func (s *store) GetReviewsByPlaygroundID(ctx context.Context, playgroundID string) ([]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews, err := s.query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE playground_id = ? ORDER BY last_update DESC", playgroundID)
	if err != nil {
		return nil, errs.Default("GetReviewsByPlaygroundID", err)
	}
	return reviews, nil
}

// GetAllReviews returns every review grouped by playground id.
func (s *store) GetAllReviews(ctx context.Context) (map[string][]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews, err := s.query(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY last_update DESC")
	if err != nil {
		return nil, errs.Default("GetAllReviews", err)
	}
	byPlayground := make(map[string][]model.Review)
	for _, r := range reviews {
		byPlayground[r.PlaygroundID] = append(byPlayground[r.PlaygroundID], r)
	}
	return byPlayground, nil
}

// InsertOrUpdateReview stores the user's review of a playground. A user has at most
// one review per playground; writing again replaces its content. The author's
// username is read inside the transaction.
func (s *store) InsertOrUpdateReview(ctx context.Context, r model.Review) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const op = "InsertOrUpdateReview"
	if r.QualityRating < 0 || r.QualityRating > maxRating || r.FacilitiesRating < 0 || r.FacilitiesRating > maxRating {
		return "", errs.Default(op, fmt.Errorf("ratings must be between 0 and %d", maxRating))
	}

	now := model.FormatDateTime(time.Now())
	var id string
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx, "SELECT username FROM users WHERE id = ?", r.UserID).Scan(&username)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound(op, r.UserID)
		}
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, "SELECT id FROM reviews WHERE user_id = ? AND playground_id = ?", r.UserID, r.PlaygroundID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id = uuid.New().String()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reviews (`+reviewColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, r.UserID, username, r.PlaygroundID, r.Title, r.Text, r.QualityRating, r.FacilitiesRating, now, now)
		case err == nil:
			_, err = tx.ExecContext(ctx, `
				UPDATE reviews SET username = ?, title = ?, text = ?, quality_rating = ?, facilities_rating = ?, last_update = ?
				WHERE id = ?`,
				username, r.Title, r.Text, r.QualityRating, r.FacilitiesRating, now, id)
		}
		return err
	})
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return "", err
		}
		log.Error("Failed to save review", "error", err, "userID", r.UserID, "playgroundID", r.PlaygroundID)
		return "", errs.Default(op, err)
	}

	s.hub.Publish(feed.Doc(feed.Reviews, id))
	return id, nil
}

func (s *store) DeleteReview(ctx context.Context, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", reviewID)
	if err != nil {
		log.Error("Failed to delete review", "error", err, "reviewID", reviewID)
		return errs.Default("DeleteReview", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("DeleteReview", reviewID)
	}
	s.hub.Publish(feed.Doc(feed.Reviews, reviewID))
	return nil
}

// CanReview reports whether the user took part in a reservation of the playground
// that has already ended.
func (s *store) CanReview(ctx context.Context, userID, playgroundID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM playground_reservations r, json_each(r.participants_json) p
		WHERE r.playground_id = ? AND r.end_date_time < ? AND json_extract(p.value, '$.id') = ?`,
		playgroundID, model.FormatDateTime(time.Now()), userID).Scan(&n)
	if err != nil {
		return false, errs.Default("CanReview", err)
	}
	return n > 0, nil
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func scanReview(scanner interface{ Scan(...any) error }) (*model.Review, error) {
	var r model.Review
	err := scanner.Scan(&r.ID, &r.UserID, &r.Username, &r.PlaygroundID, &r.Title, &r.Text, &r.QualityRating, &r.FacilitiesRating, &r.PublicationDate, &r.LastUpdate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
