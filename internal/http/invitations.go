package http

import (
	"net/http"

	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
	"github.com/mauv0809/sportapp/internal/model"
)

// SendInvitationHandler invites a user to a reservation on behalf of the caller.
// An invitation stored without a delivered push answers 202 with its id.
func (s *Server) SendInvitationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req invitationRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		if req.ReceiverUID == "" || req.ReservationID == "" {
			badRequest(w, "receiver_uid and reservation_id are required")
			return
		}
		id, err := s.Invitations.SendInvitation(r.Context(), model.Notification{
			SenderUID:     userIDFromContext(r),
			ReceiverUID:   req.ReceiverUID,
			ReservationID: req.ReservationID,
			Description:   req.Description,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, invitationResponse{ID: id, Pushed: true})
		case errs.Is(err, errs.KindPushNotSent):
			writeJSON(w, statusFor(err), invitationResponse{ID: id, Pushed: false, Message: err.Error()})
		default:
			writeError(w, err)
		}
	}
}

func (s *Server) UpdateInvitationStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "%v", err)
			return
		}
		oldStatus, newStatus := model.NotificationStatus(req.OldStatus), model.NotificationStatus(req.NewStatus)
		if !oldStatus.Valid() || !newStatus.Valid() {
			badRequest(w, "unknown status %q -> %q", req.OldStatus, req.NewStatus)
			return
		}
		err := s.Invitations.UpdateInvitationStatus(r.Context(), userIDFromContext(r), r.PathValue("id"), oldStatus, newStatus, req.ReservationID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) NotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sameUser(w, r) {
			return
		}
		userID := r.PathValue("id")
		first(w, r, func(cb func([]model.Notification, error)) *feed.Listener {
			return s.Invitations.WatchUserNotifications(userID, cb)
		})
	}
}
