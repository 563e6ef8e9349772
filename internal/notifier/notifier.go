package notifier

// Notifier defines a high-level interface for telling sport center staff about
// bookings. This decouples the rest of the application from the specific
// notification provider (e.g., Slack).
type Notifier interface {
	// For new and edited reservations
	SendReservationSaved(r Reservation, dryRun bool) error
	// For deleted reservations
	SendReservationDeleted(r Reservation, dryRun bool) error
	// For answered invitations
	SendInvitationAnswered(a InvitationAnswer, dryRun bool) error
}

// Reservation is the staff-facing summary of a booking.
type Reservation struct {
	ID              string
	Username        string
	PlaygroundName  string
	SportName       string
	SportEmoji      string
	SportCenterName string
	StartDateTime   string
	EndDateTime     string
	TotalPrice      float64
	Created         bool
}

// InvitationAnswer reports a receiver accepting or rejecting an invitation.
type InvitationAnswer struct {
	ReservationID string
	Username      string
	Status        string
}
