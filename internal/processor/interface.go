package processor

import (
	"context"

	"github.com/mauv0809/sportapp/internal/model"
	"github.com/mauv0809/sportapp/internal/notifier"
)

// Catalog defines the catalog lookups required by the processor.
type Catalog interface {
	GetPlayground(ctx context.Context, playgroundID string) (*model.PlaygroundSport, error)
}

// Users defines the user lookups required by the processor.
type Users interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
