package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ReservationsSaved     prometheus.Counter
	ReservationsDeleted   prometheus.Counter
	SlotConflicts         prometheus.Counter
	EquipmentConflicts    prometheus.Counter
	WriteDuration         prometheus.Histogram
	InvitationsSent       prometheus.Counter
	InvitationTransitions *prometheus.CounterVec
	PushSent              prometheus.Counter
	PushFailed            prometheus.Counter
	SlackNotifSent        prometheus.Counter
	SlackNotifFailed      prometheus.Counter
	ActiveListeners       prometheus.Gauge
	StartupTimeSeconds    prometheus.Gauge
}

// Keys of the persistent counters kept in the metrics table.
const (
	KeyReservationsSaved   = "reservations_saved"
	KeyReservationsDeleted = "reservations_deleted"
	KeyInvitationsSent     = "invitations_sent"
	KeyPushSent            = "push_notifications_sent"
)
