package user

import (
	"context"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// UserStore defines the interface for reading and updating users.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	WatchUser(userID string, cb func(*model.User, error)) *feed.Listener
	UserExists(ctx context.Context, userID string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	InsertUser(ctx context.Context, u model.User) error
	UpdateUser(ctx context.Context, u model.User) error
	UpdateUserToken(ctx context.Context, userID, token string) error
	UpdateUserImageURL(ctx context.Context, userID, imageURL string) error
	WatchUsersToSendInvitationTo(senderID, reservationID string, cb func([]model.User, error)) *feed.Listener
}
