package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(s.Cfg.CORSOrigins, "*") || slices.Contains(s.Cfg.CORSOrigins, origin)
		},
	}
}

// stream upgrades the request and forwards every value of a live view as a JSON
// frame until the client goes away. Only the latest pending value is kept for a
// slow client. The listener is unregistered when the socket closes.
func stream[T any](s *Server, w http.ResponseWriter, r *http.Request, watch func(cb func(T, error)) *feed.Listener) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		log.Error("Failed to upgrade connection", "error", err, "path", r.URL.Path)
		return
	}
	defer conn.Close()

	s.Metrics.SetActiveListeners(int(s.streams.Add(1)))
	defer func() { s.Metrics.SetActiveListeners(int(s.streams.Add(-1))) }()

	frames := make(chan streamFrame, 1)
	l := watch(func(value T, err error) {
		f := streamFrame{Data: value}
		if err != nil {
			f = streamFrame{Error: toAPIError(err)}
		}
		offerLatest(frames, f)
	})
	defer l.Unregister()

	// The read loop notices the close handshake and answers pings.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	log.Debug("Stream opened", "path", r.URL.Path, "userID", userIDFromContext(r))
	for {
		select {
		case f := <-frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				log.Debug("Stream write failed", "error", err, "path", r.URL.Path)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			log.Debug("Stream closed by client", "path", r.URL.Path)
			return
		}
	}
}

// offerLatest replaces any frame still waiting in frames with f.
func offerLatest(frames chan streamFrame, f streamFrame) {
	for {
		select {
		case frames <- f:
			return
		default:
		}
		select {
		case <-frames:
		default:
		}
	}
}

func (s *Server) ReservationStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		stream(s, w, r, func(cb func(*model.DetailedReservation, error)) *feed.Listener {
			return s.Reservations.WatchDetailedReservation(id, cb)
		})
	}
}

func (s *Server) NotificationsStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		id := r.PathValue("id")
		stream(s, w, r, func(cb func([]model.Notification, error)) *feed.Listener {
			return s.Invitations.WatchUserNotifications(id, cb)
		})
	}
}

func (s *Server) UserReservationsStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		id := r.PathValue("id")
		stream(s, w, r, func(cb func(map[string][]model.DetailedReservation, error)) *feed.Listener {
			return s.Reservations.WatchReservationsPerDateByUserID(id, cb)
		})
	}
}
