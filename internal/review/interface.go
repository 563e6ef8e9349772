package review

import (
	"context"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// ReviewStore defines the interface for playground reviews.
type ReviewStore interface {
	WatchReviewByUserAndPlayground(userID, playgroundID string, cb func(*model.Review, error)) *feed.Listener
	GetReviewsByPlaygroundID(ctx context.Context, playgroundID string) ([]model.Review, error)
	GetAllReviews(ctx context.Context) (map[string][]model.Review, error)
	InsertOrUpdateReview(ctx context.Context, r model.Review) (string, error)
	DeleteReview(ctx context.Context, reviewID string) error
	CanReview(ctx context.Context, userID, playgroundID string) (bool, error)
}
