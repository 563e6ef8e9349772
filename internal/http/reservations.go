package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

func (s *Server) CreateReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.NewReservation
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		req.ID = nil
		id, err := s.Reservations.UpsertReservation(r.Context(), userIDFromContext(r), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, idResponse{ID: id})
	}
}

// UpdateReservationHandler edits a reservation of the caller. The path id wins
// over any id in the body.
func (s *Server) UpdateReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.NewReservation
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		id := r.PathValue("id")
		if !s.ownsReservation(w, r, id) {
			return
		}
		req.ID = &id
		if _, err := s.Reservations.UpsertReservation(r.Context(), userIDFromContext(r), req); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}

func (s *Server) DeleteReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !s.ownsReservation(w, r, id) {
			return
		}
		if err := s.Reservations.DeleteReservation(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ownsReservation answers the request itself unless the caller booked id.
func (s *Server) ownsReservation(w http.ResponseWriter, r *http.Request, id string) bool {
	res, err := s.Reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return false
	}
	if res.User.ID != userIDFromContext(r) {
		log.Warn("Rejected change to another user's reservation", "reservationID", id, "userID", userIDFromContext(r))
		forbidden(w)
		return false
	}
	return true
}

func (s *Server) GetReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		first(w, r, func(cb func(*model.DetailedReservation, error)) *feed.Listener {
			return s.Reservations.WatchDetailedReservation(id, cb)
		})
	}
}

// UserReservationsHandler lists the caller's reservations grouped by date.
func (s *Server) UserReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		id := r.PathValue("id")
		first(w, r, func(cb func(map[string][]model.DetailedReservation, error)) *feed.Listener {
			return s.Reservations.WatchReservationsPerDateByUserID(id, cb)
		})
	}
}
