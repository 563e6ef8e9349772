package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncReservationsSaved()
	IncReservationsDeleted()
	IncSlotConflicts()
	IncEquipmentConflicts()
	ObserveWriteDuration(duration float64)
	IncInvitationsSent()
	IncInvitationTransitions(to string)
	IncPushSent()
	IncPushFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetActiveListeners(n int)
	SetStartupTime(duration float64)
}

// MetricsStore persists counters that survive restarts.
type MetricsStore interface {
	Increment(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]int, error)
}
