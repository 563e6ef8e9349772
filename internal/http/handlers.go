package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/pubsub"
)

const defaultTokenTTL = 24 * time.Hour

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler exposes the persistent counters.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats.GetAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			log.Error("Failed to get stats from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// EventsHandler receives Pub/Sub push deliveries. The event type travels in the
// "event" attribute. A handler failure answers 500 so the delivery is retried.
func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.PushMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		topic := pubsub.EventType(msg.Message.Attributes["event"])
		if topic == "" {
			log.Warn("Push message without event attribute", "messageID", msg.Message.MessageID, "subscription", msg.Subscription)
			http.Error(w, "Missing event attribute", http.StatusBadRequest)
			return
		}
		log.Debug("Received push message", "topic", topic, "messageID", msg.Message.MessageID)
		if err := s.Events.Handle(topic, msg.Message.Data); err != nil {
			log.Error("Failed to handle push message", "error", err, "topic", topic, "messageID", msg.Message.MessageID)
			http.Error(w, "Failed to handle event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// IssueTokenHandler signs a token for an existing user. It is only routed when
// development tokens are enabled.
func (s *Server) IssueTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authTokenRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		ttl := defaultTokenTTL
		if req.TTL != "" {
			d, err := time.ParseDuration(req.TTL)
			if err != nil || d <= 0 {
				badRequest(w, "invalid ttl %q", req.TTL)
				return
			}
			ttl = d
		}
		exists, err := s.Users.UserExists(r.Context(), req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !exists {
			writeJSON(w, http.StatusNotFound, &apiError{Kind: "not_found", Message: fmt.Sprintf("user %s not found", req.UserID)})
			return
		}
		token, err := s.Signer.Issue(req.UserID, ttl)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authTokenResponse{Token: token})
	}
}
