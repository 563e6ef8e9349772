package push

import "context"

// Pusher delivers a push message to one device.
type Pusher interface {
	Send(ctx context.Context, msg Message) error
}
