package review

import (
	"context"
	"sync"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// MockStore is a mock implementation of the ReviewStore interface for testing.
type MockStore struct {
	mu sync.Mutex

	WatchReviewByUserAndPlaygroundFunc func(userID, playgroundID string, cb func(*model.Review, error)) *feed.Listener
	GetReviewsByPlaygroundIDFunc       func(ctx context.Context, playgroundID string) ([]model.Review, error)
	GetAllReviewsFunc                  func(ctx context.Context) (map[string][]model.Review, error)
	InsertOrUpdateReviewFunc           func(ctx context.Context, r model.Review) (string, error)
	DeleteReviewFunc                   func(ctx context.Context, reviewID string) error
	CanReviewFunc                      func(ctx context.Context, userID, playgroundID string) (bool, error)

	InsertOrUpdateReviewCalls []model.Review
	DeleteReviewCalls         []string
}

var _ ReviewStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) WatchReviewByUserAndPlayground(userID, playgroundID string, cb func(*model.Review, error)) *feed.Listener {
	if m.WatchReviewByUserAndPlaygroundFunc != nil {
		return m.WatchReviewByUserAndPlaygroundFunc(userID, playgroundID, cb)
	}
	cb(nil, errs.NotFound("GetReviewByUserAndPlayground", userID+"/"+playgroundID))
	return feed.NewListener()
}

func (m *MockStore) GetReviewsByPlaygroundID(ctx context.Context, playgroundID string) ([]model.Review, error) {
	if m.GetReviewsByPlaygroundIDFunc != nil {
		return m.GetReviewsByPlaygroundIDFunc(ctx, playgroundID)
	}
	return []model.Review{}, nil
}

func (m *MockStore) GetAllReviews(ctx context.Context) (map[string][]model.Review, error) {
	if m.GetAllReviewsFunc != nil {
		return m.GetAllReviewsFunc(ctx)
	}
	return map[string][]model.Review{}, nil
}

func (m *MockStore) InsertOrUpdateReview(ctx context.Context, r model.Review) (string, error) {
	m.mu.Lock()
	m.InsertOrUpdateReviewCalls = append(m.InsertOrUpdateReviewCalls, r)
	m.mu.Unlock()
	if m.InsertOrUpdateReviewFunc != nil {
		return m.InsertOrUpdateReviewFunc(ctx, r)
	}
	return "review-id", nil
}

func (m *MockStore) DeleteReview(ctx context.Context, reviewID string) error {
	m.mu.Lock()
	m.DeleteReviewCalls = append(m.DeleteReviewCalls, reviewID)
	m.mu.Unlock()
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(ctx, reviewID)
	}
	return nil
}

func (m *MockStore) CanReview(ctx context.Context, userID, playgroundID string) (bool, error) {
	if m.CanReviewFunc != nil {
		return m.CanReviewFunc(ctx, userID, playgroundID)
	}
	return false, nil
}
