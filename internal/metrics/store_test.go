package metrics

import (
	"context"
	"testing"

	"github.com/mauv0809/sportapp/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return New(db), teardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	// 1. Initially, there should be no metrics
	metrics, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, metrics)

	// 2. Increment a new key
	require.NoError(t, store.Increment(ctx, KeyReservationsSaved))
	metrics, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyReservationsSaved: 1}, metrics)

	// 3. Increment the same key again
	require.NoError(t, store.Increment(ctx, KeyReservationsSaved))
	metrics, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyReservationsSaved: 2}, metrics)

	// 4. Increment a different key
	require.NoError(t, store.Increment(ctx, KeyPushSent))
	metrics, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyReservationsSaved: 2,
		KeyPushSent:          1,
	}, metrics)
}

func TestIncrementOnClosedDatabase(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	store := New(db)
	teardown()

	ctx := context.Background()
	assert.Error(t, store.Increment(ctx, KeyPushSent))
	_, err = store.GetAll(ctx)
	assert.Error(t, err)
}

func TestServiceRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncReservationsSaved()
	s.IncInvitationTransitions("ACCEPTED")
	s.IncInvitationTransitions("ACCEPTED")
	s.SetActiveListeners(3)

	assert.Equal(t, 1.0, counterValue(t, s.ReservationsSaved))
	assert.Equal(t, 2.0, counterValue(t, s.InvitationTransitions.WithLabelValues("ACCEPTED")))

	gauge := &dto.Metric{}
	require.NoError(t, s.ActiveListeners.Write(gauge))
	assert.Equal(t, 3.0, gauge.GetGauge().GetValue())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}
