package http

import (
	"net/http"

	"github.com/mauv0809/sportapp/internal/auth"
	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/config"
	"github.com/mauv0809/sportapp/internal/invitation"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/reservation"
	"github.com/mauv0809/sportapp/internal/review"
	"github.com/mauv0809/sportapp/internal/user"
	"github.com/rs/cors"
)

func NewServer(catalogStore catalog.CatalogStore, reservations reservation.ReservationStore, users user.UserStore, invitations invitation.InvitationStore, reviews review.ReviewStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, stats metrics.MetricsStore, signer *auth.Signer, events EventHandler, cfg config.Config) *Server {
	server := &Server{
		Catalog:        catalogStore,
		Reservations:   reservations,
		Users:          users,
		Invitations:    invitations,
		Reviews:        reviews,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Stats:          stats,
		Signer:         signer,
		Events:         events,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	server.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(server.Router)
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, s.authMiddleware)
	authed := func(h http.Handler) http.Handler { return Chain(h, paramsMiddleware, s.authMiddleware) }

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))
	s.Router.Handle("POST /events/reservation", Chain(s.EventsHandler(), paramsMiddleware))
	s.Router.Handle("POST /events/invitation", Chain(s.EventsHandler(), paramsMiddleware))
	if s.Cfg.Auth.DevTokens {
		s.Router.Handle("POST /auth/token", Chain(s.IssueTokenHandler(), paramsMiddleware))
	}

	// Catalog
	s.Router.Handle("GET /sports", authed(s.ListSportsHandler()))
	s.Router.Handle("GET /playgrounds", authed(s.ListPlaygroundsHandler()))
	s.Router.Handle("GET /playgrounds/{id}", authed(s.GetPlaygroundHandler()))
	s.Router.Handle("GET /sports/{id}/availability", authed(s.AvailabilityHandler()))
	s.Router.Handle("GET /equipments", authed(s.EquipmentsHandler()))

	// Reservations
	s.Router.Handle("POST /reservations", authed(s.CreateReservationHandler()))
	s.Router.Handle("PUT /reservations/{id}", authed(s.UpdateReservationHandler()))
	s.Router.Handle("DELETE /reservations/{id}", authed(s.DeleteReservationHandler()))
	s.Router.Handle("GET /reservations/{id}", authed(s.GetReservationHandler()))
	s.Router.Handle("GET /users/{id}/reservations", authed(s.UserReservationsHandler()))

	// Users
	s.Router.Handle("GET /users/{id}", authed(s.GetUserHandler()))
	s.Router.Handle("PUT /users/{id}", authed(s.UpdateUserHandler()))
	s.Router.Handle("PUT /users/{id}/token", authed(s.UpdateTokenHandler()))
	s.Router.Handle("PUT /users/{id}/image", authed(s.UpdateImageHandler()))
	s.Router.Handle("GET /users/{id}/invitable", authed(s.InvitableUsersHandler()))

	// Invitations
	s.Router.Handle("POST /invitations", authed(s.SendInvitationHandler()))
	s.Router.Handle("PUT /invitations/{id}/status", authed(s.UpdateInvitationStatusHandler()))
	s.Router.Handle("GET /users/{id}/notifications", authed(s.NotificationsHandler()))

	// Reviews
	s.Router.Handle("GET /playgrounds/{id}/reviews/mine", authed(s.MyReviewHandler()))
	s.Router.Handle("PUT /playgrounds/{id}/reviews", authed(s.UpsertReviewHandler()))
	s.Router.Handle("DELETE /reviews/{id}", authed(s.DeleteReviewHandler()))
	s.Router.Handle("GET /playgrounds/{id}/can-review", authed(s.CanReviewHandler()))

	// Live views
	s.Router.Handle("GET /ws/reservations/{id}", authed(s.ReservationStreamHandler()))
	s.Router.Handle("GET /ws/users/{id}/notifications", authed(s.NotificationsStreamHandler()))
	s.Router.Handle("GET /ws/users/{id}/reservations", authed(s.UserReservationsStreamHandler()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
