package errs

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Kind classifies an error for callers that need to react to it.
type Kind int

const (
	KindDefault Kind = iota
	KindNotFound
	KindDeserialization
	KindSlotConflict
	KindEquipmentConflict
	KindInvalidTransition
	KindUnexpected
	KindUnauthenticated
	// KindInvitationNotSaved means the invitation was not recorded at all.
	KindInvitationNotSaved
	// KindPushNotSent means the invitation was recorded but the push was not delivered.
	KindPushNotSent
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDeserialization:
		return "deserialization"
	case KindSlotConflict:
		return "slot_conflict"
	case KindEquipmentConflict:
		return "equipment_conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindUnexpected:
		return "unexpected"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvitationNotSaved:
		return "invitation_not_saved"
	case KindPushNotSent:
		return "push_not_sent"
	default:
		return "default"
	}
}

// Error is the typed error returned across package boundaries.
type Error struct {
	Kind Kind
	Op   string
	ID   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id %s)", msg, e.ID)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that the document id does not exist.
func NotFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, ID: id, Msg: "not found"}
}

// Deserialization reports a stored document whose shape does not match the schema.
// It is always logged with the document id.
func Deserialization(op, id string, cause error) error {
	log.Error("Failed to deserialize document", "op", op, "id", id, "error", cause)
	return &Error{Kind: KindDeserialization, Op: op, ID: id, Msg: "cannot deserialize document", Err: cause}
}

// Default wraps a backend failure.
func Default(op string, cause error) error {
	return &Error{Kind: KindDefault, Op: op, Err: cause}
}

// Unexpected wraps a lookup or transaction plumbing failure.
func Unexpected(op string, cause error) error {
	return &Error{Kind: KindUnexpected, Op: op, Err: cause}
}

// Unauthenticated reports a missing or invalid caller identity.
func Unauthenticated(op string) error {
	return &Error{Kind: KindUnauthenticated, Op: op, Msg: "not authenticated"}
}

// InvitationNotSaved wraps a failure that happened before the invitation was stored.
func InvitationNotSaved(op string, cause error) error {
	return &Error{Kind: KindInvitationNotSaved, Op: op, Msg: "invitation not saved", Err: cause}
}

// PushNotSent wraps a failure that happened after the invitation was stored.
func PushNotSent(op string, cause error) error {
	return &Error{Kind: KindPushNotSent, Op: op, Msg: "invitation saved but push not sent", Err: cause}
}

// SlotConflictError means the requested range overlaps another reservation of the
// same playground.
type SlotConflictError struct {
	PlaygroundID  string
	ReservationID string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("playground %s is already reserved by reservation %s in the requested time range", e.PlaygroundID, e.ReservationID)
}

// EquipmentConflictError means the requested quantity exceeds what is left.
type EquipmentConflictError struct {
	EquipmentID string
	Requested   int
	Available   int
}

func (e *EquipmentConflictError) Error() string {
	return fmt.Sprintf("equipment %s: requested %d but only %d available", e.EquipmentID, e.Requested, e.Available)
}

// InvalidTransitionError rejects an invitation status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid invitation transition from %s to %s", e.From, e.To)
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindDefault
	}
	var slot *SlotConflictError
	if errors.As(err, &slot) {
		return KindSlotConflict
	}
	var equipment *EquipmentConflictError
	if errors.As(err, &equipment) {
		return KindEquipmentConflict
	}
	var transition *InvalidTransitionError
	if errors.As(err, &transition) {
		return KindInvalidTransition
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDefault
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
