package invitation

import (
	"context"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// InvitationStore defines the invitation lifecycle and the user's notification list.
type InvitationStore interface {
	SendInvitation(ctx context.Context, n model.Notification) (string, error)
	UpdateInvitationStatus(ctx context.Context, userID, notificationID string, oldStatus, newStatus model.NotificationStatus, reservationID string) error
	GetNotification(ctx context.Context, notificationID string) (*model.Notification, error)
	DeleteNotification(ctx context.Context, notificationID string) error
	WatchUserNotifications(userID string, cb func([]model.Notification, error)) *feed.Listener
}
