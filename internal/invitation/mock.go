package invitation

import (
	"context"
	"sync"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// MockStore is a mock implementation of the InvitationStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	SendInvitationFunc         func(ctx context.Context, n model.Notification) (string, error)
	UpdateInvitationStatusFunc func(ctx context.Context, userID, notificationID string, oldStatus, newStatus model.NotificationStatus, reservationID string) error
	GetNotificationFunc        func(ctx context.Context, notificationID string) (*model.Notification, error)
	DeleteNotificationFunc     func(ctx context.Context, notificationID string) error
	WatchUserNotificationsFunc func(userID string, cb func([]model.Notification, error)) *feed.Listener

	// Call records
	SendInvitationCalls         []model.Notification
	UpdateInvitationStatusCalls []UpdateInvitationStatusCall
}

var _ InvitationStore = (*MockStore)(nil)

// UpdateInvitationStatusCall holds the arguments for a call to UpdateInvitationStatus.
type UpdateInvitationStatusCall struct {
	UserID         string
	NotificationID string
	OldStatus      model.NotificationStatus
	NewStatus      model.NotificationStatus
	ReservationID  string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SendInvitation(ctx context.Context, n model.Notification) (string, error) {
	m.mu.Lock()
	m.SendInvitationCalls = append(m.SendInvitationCalls, n)
	m.mu.Unlock()
	if m.SendInvitationFunc != nil {
		return m.SendInvitationFunc(ctx, n)
	}
	return "mock-notification", nil
}

func (m *MockStore) UpdateInvitationStatus(ctx context.Context, userID, notificationID string, oldStatus, newStatus model.NotificationStatus, reservationID string) error {
	m.mu.Lock()
	m.UpdateInvitationStatusCalls = append(m.UpdateInvitationStatusCalls, UpdateInvitationStatusCall{
		UserID:         userID,
		NotificationID: notificationID,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		ReservationID:  reservationID,
	})
	m.mu.Unlock()
	if m.UpdateInvitationStatusFunc != nil {
		return m.UpdateInvitationStatusFunc(ctx, userID, notificationID, oldStatus, newStatus, reservationID)
	}
	return nil
}

func (m *MockStore) GetNotification(ctx context.Context, notificationID string) (*model.Notification, error) {
	if m.GetNotificationFunc != nil {
		return m.GetNotificationFunc(ctx, notificationID)
	}
	return nil, errs.NotFound("GetNotification", notificationID)
}

func (m *MockStore) DeleteNotification(ctx context.Context, notificationID string) error {
	if m.DeleteNotificationFunc != nil {
		return m.DeleteNotificationFunc(ctx, notificationID)
	}
	return nil
}

func (m *MockStore) WatchUserNotifications(userID string, cb func([]model.Notification, error)) *feed.Listener {
	if m.WatchUserNotificationsFunc != nil {
		return m.WatchUserNotificationsFunc(userID, cb)
	}
	cb([]model.Notification{}, nil)
	return feed.NewListener()
}
