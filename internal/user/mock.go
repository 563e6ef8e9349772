package user

import (
	"context"
	"sync"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// MockStore is a mock implementation of the UserStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetUserFunc                      func(ctx context.Context, userID string) (*model.User, error)
	WatchUserFunc                    func(userID string, cb func(*model.User, error)) *feed.Listener
	UserExistsFunc                   func(ctx context.Context, userID string) (bool, error)
	UsernameExistsFunc               func(ctx context.Context, username string) (bool, error)
	InsertUserFunc                   func(ctx context.Context, u model.User) error
	UpdateUserFunc                   func(ctx context.Context, u model.User) error
	UpdateUserTokenFunc              func(ctx context.Context, userID, token string) error
	UpdateUserImageURLFunc           func(ctx context.Context, userID, imageURL string) error
	WatchUsersToSendInvitationToFunc func(senderID, reservationID string, cb func([]model.User, error)) *feed.Listener

	// Call records
	GetUserCalls     []string
	InsertUserCalls  []model.User
	UpdateUserCalls  []model.User
	UpdateTokenCalls []struct {
		UserID string
		Token  string
	}
}

var _ UserStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	m.GetUserCalls = append(m.GetUserCalls, userID)
	m.mu.Unlock()
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return nil, errs.NotFound("GetUser", userID)
}

func (m *MockStore) WatchUser(userID string, cb func(*model.User, error)) *feed.Listener {
	if m.WatchUserFunc != nil {
		return m.WatchUserFunc(userID, cb)
	}
	cb(nil, errs.NotFound("GetUser", userID))
	return feed.NewListener()
}

func (m *MockStore) UserExists(ctx context.Context, userID string) (bool, error) {
	if m.UserExistsFunc != nil {
		return m.UserExistsFunc(ctx, userID)
	}
	return false, nil
}

func (m *MockStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.UsernameExistsFunc != nil {
		return m.UsernameExistsFunc(ctx, username)
	}
	return false, nil
}

func (m *MockStore) InsertUser(ctx context.Context, u model.User) error {
	m.mu.Lock()
	m.InsertUserCalls = append(m.InsertUserCalls, u)
	m.mu.Unlock()
	if m.InsertUserFunc != nil {
		return m.InsertUserFunc(ctx, u)
	}
	return nil
}

func (m *MockStore) UpdateUser(ctx context.Context, u model.User) error {
	m.mu.Lock()
	m.UpdateUserCalls = append(m.UpdateUserCalls, u)
	m.mu.Unlock()
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, u)
	}
	return nil
}

func (m *MockStore) UpdateUserToken(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	m.UpdateTokenCalls = append(m.UpdateTokenCalls, struct {
		UserID string
		Token  string
	}{userID, token})
	m.mu.Unlock()
	if m.UpdateUserTokenFunc != nil {
		return m.UpdateUserTokenFunc(ctx, userID, token)
	}
	return nil
}

func (m *MockStore) UpdateUserImageURL(ctx context.Context, userID, imageURL string) error {
	if m.UpdateUserImageURLFunc != nil {
		return m.UpdateUserImageURLFunc(ctx, userID, imageURL)
	}
	return nil
}

func (m *MockStore) WatchUsersToSendInvitationTo(senderID, reservationID string, cb func([]model.User, error)) *feed.Listener {
	if m.WatchUsersToSendInvitationToFunc != nil {
		return m.WatchUsersToSendInvitationToFunc(senderID, reservationID, cb)
	}
	cb([]model.User{}, nil)
	return feed.NewListener()
}
