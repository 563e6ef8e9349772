package invitation

import (
	"testing"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	statuses := []model.NotificationStatus{model.StatusPending, model.StatusAccepted, model.StatusRejected, model.StatusCanceled}
	allowed := map[transition]Effect{
		{model.StatusPending, model.StatusAccepted}:  AddParticipant,
		{model.StatusPending, model.StatusRejected}:  KeepParticipants,
		{model.StatusAccepted, model.StatusRejected}: RemoveParticipant,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				effect, err := Transition(from, to)
				want, ok := allowed[transition{from, to}]
				if !ok {
					assert.True(t, errs.Is(err, errs.KindInvalidTransition))
					return
				}
				assert.NoError(t, err)
				assert.Equal(t, want, effect)
			})
		}
	}
}
