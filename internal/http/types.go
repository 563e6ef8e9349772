package http

import (
	"net/http"
	"sync/atomic"

	"github.com/mauv0809/sportapp/internal/auth"
	"github.com/mauv0809/sportapp/internal/catalog"
	"github.com/mauv0809/sportapp/internal/config"
	"github.com/mauv0809/sportapp/internal/invitation"
	"github.com/mauv0809/sportapp/internal/metrics"
	"github.com/mauv0809/sportapp/internal/pubsub"
	"github.com/mauv0809/sportapp/internal/reservation"
	"github.com/mauv0809/sportapp/internal/review"
	"github.com/mauv0809/sportapp/internal/user"
)

// EventHandler consumes events delivered by a push subscription.
type EventHandler interface {
	Handle(topic pubsub.EventType, data []byte) error
}

type Server struct {
	Catalog        catalog.CatalogStore
	Reservations   reservation.ReservationStore
	Users          user.UserStore
	Invitations    invitation.InvitationStore
	Reviews        review.ReviewStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Stats          metrics.MetricsStore
	Signer         *auth.Signer
	Events         EventHandler
	Cfg            config.Config
	Router         *http.ServeMux

	handler http.Handler
	streams atomic.Int64
}

// apiError is the JSON body of every failed request.
type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// streamFrame is one websocket message: the latest value of a live view or the
// error that replaced it.
type streamFrame struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type invitationRequest struct {
	ReceiverUID   string `json:"receiver_uid"`
	ReservationID string `json:"reservation_id"`
	Description   string `json:"description"`
}

type invitationResponse struct {
	ID      string `json:"id"`
	Pushed  bool   `json:"pushed"`
	Message string `json:"message,omitempty"`
}

type statusRequest struct {
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	ReservationID string `json:"reservation_id"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type imageRequest struct {
	ImageURL string `json:"image_url"`
}

type authTokenRequest struct {
	UserID string `json:"user_id"`
	TTL    string `json:"ttl,omitempty"`
}

type authTokenResponse struct {
	Token string `json:"token"`
}
