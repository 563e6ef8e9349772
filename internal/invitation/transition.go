package invitation

import (
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/model"
)

type transition struct {
	from, to model.NotificationStatus
}

// transitions lists every status change a receiver may make. CANCELED is only
// reached by deleting the reservation.
var transitions = map[transition]Effect{
	{model.StatusPending, model.StatusAccepted}:  AddParticipant,
	{model.StatusPending, model.StatusRejected}:  KeepParticipants,
	{model.StatusAccepted, model.StatusRejected}: RemoveParticipant,
}

// Transition returns the participant effect of moving from one status to another,
// or an InvalidTransitionError.
func Transition(from, to model.NotificationStatus) (Effect, error) {
	effect, ok := transitions[transition{from, to}]
	if !ok {
		return KeepParticipants, &errs.InvalidTransitionError{From: string(from), To: string(to)}
	}
	return effect, nil
}
