package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ReservationsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_reservations_saved_total",
			Help: "The total number of reservations created or updated.",
		}),
		ReservationsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_reservations_deleted_total",
			Help: "The total number of reservations deleted.",
		}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_slot_conflicts_total",
			Help: "The total number of reservation writes rejected for an overlapping slot.",
		}),
		EquipmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_equipment_conflicts_total",
			Help: "The total number of reservation writes rejected for missing equipment.",
		}),
		WriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sportapp_reservation_write_duration_seconds",
			Help:    "The duration of reservation writes, checks included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		InvitationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_invitations_sent_total",
			Help: "The total number of invitations stored.",
		}),
		InvitationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sportapp_invitation_transitions_total",
			Help: "The total number of invitation status changes, by target status.",
		}, []string{"to"}),
		PushSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_push_notifications_sent_total",
			Help: "The total number of push notifications delivered to the push service.",
		}),
		PushFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_push_notifications_failed_total",
			Help: "The total number of push notifications that failed to send.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sportapp_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		ActiveListeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sportapp_active_listeners",
			Help: "The number of open change feed subscriptions.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sportapp_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ReservationsSaved,
		s.ReservationsDeleted,
		s.SlotConflicts,
		s.EquipmentConflicts,
		s.WriteDuration,
		s.InvitationsSent,
		s.InvitationTransitions,
		s.PushSent,
		s.PushFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.ActiveListeners,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReservationsSaved() {
	s.ReservationsSaved.Inc()
}

func (s *Service) IncReservationsDeleted() {
	s.ReservationsDeleted.Inc()
}

func (s *Service) IncSlotConflicts() {
	s.SlotConflicts.Inc()
}

func (s *Service) IncEquipmentConflicts() {
	s.EquipmentConflicts.Inc()
}

func (s *Service) ObserveWriteDuration(duration float64) {
	s.WriteDuration.Observe(duration)
}

func (s *Service) IncInvitationsSent() {
	s.InvitationsSent.Inc()
}

func (s *Service) IncInvitationTransitions(to string) {
	s.InvitationTransitions.WithLabelValues(to).Inc()
}

func (s *Service) IncPushSent() {
	s.PushSent.Inc()
}

func (s *Service) IncPushFailed() {
	s.PushFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetActiveListeners(n int) {
	s.ActiveListeners.Set(float64(n))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
