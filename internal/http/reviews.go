package http

import (
	"net/http"

	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

func (s *Server) MyReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, playgroundID := userIDFromContext(r), r.PathValue("id")
		first(w, r, func(cb func(*model.Review, error)) *feed.Listener {
			return s.Reviews.WatchReviewByUserAndPlayground(userID, playgroundID, cb)
		})
	}
}

// UpsertReviewHandler stores the caller's review of a playground. The user and
// playground come from the token and the path.
func (s *Server) UpsertReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var review model.Review
		if err := decodeBody(r, &review); err != nil {
			badRequest(w, "%v", err)
			return
		}
		u, err := s.Users.GetUser(r.Context(), userIDFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		review.UserID = u.ID
		review.Username = u.Username
		review.PlaygroundID = r.PathValue("id")

		id, err := s.Reviews.InsertOrUpdateReview(r.Context(), review)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, idResponse{ID: id})
	}
}

func (s *Server) DeleteReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Reviews.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CanReviewHandler reports whether the caller played on the playground.
func (s *Server) CanReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.Reviews.CanReview(r.Context(), userIDFromContext(r), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"can_review": ok})
	}
}
