package http

import (
	"net/http"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.Users.GetUser(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateUserHandler replaces the caller's profile. A changed username is fanned
// out to reservations and reviews by the store.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		var u model.User
		if err := decodeBody(r, &u); err != nil {
			badRequest(w, "%v", err)
			return
		}
		u.ID = r.PathValue("id")
		if err := s.Users.UpdateUser(r.Context(), u); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) UpdateTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		var req tokenRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		if err := s.Users.UpdateUserToken(r.Context(), r.PathValue("id"), req.Token); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) UpdateImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		var req imageRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		if err := s.Users.UpdateUserImageURL(r.Context(), r.PathValue("id"), req.ImageURL); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// InvitableUsersHandler lists the users the caller can still invite to
// ?reservationId=.
func (s *Server) InvitableUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		reservationID := r.URL.Query().Get("reservationId")
		if reservationID == "" {
			badRequest(w, "reservationId is required")
			return
		}
		senderID := r.PathValue("id")
		first(w, r, func(cb func([]model.User, error)) *feed.Listener {
			return s.Users.WatchUsersToSendInvitationTo(senderID, reservationID, cb)
		})
	}
}
