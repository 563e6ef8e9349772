package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/sportapp/internal/errs"
	"github.com/mauv0809/sportapp/internal/feed"
)

// firstResultTimeout bounds how long a plain GET waits for a live view.
const firstResultTimeout = 10 * time.Second

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindSlotConflict, errs.KindEquipmentConflict:
		return http.StatusConflict
	case errs.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindPushNotSent:
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}

func toAPIError(err error) *apiError {
	return &apiError{Kind: errs.KindOf(err).String(), Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err, "status", status)
	} else {
		log.Debug("Request rejected", "error", err, "status", status)
	}
	writeJSON(w, status, toAPIError(err))
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, http.StatusBadRequest, &apiError{Kind: "bad_request", Message: fmt.Sprintf(format, args...)})
}

func forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, &apiError{Kind: "forbidden", Message: "not allowed for this user"})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sameUser rejects the request unless the caller is the user named in the path.
func sameUser(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("id") != userIDFromContext(r) {
		forbidden(w)
		return false
	}
	return true
}

// first answers a plain GET from the first value of a live view.
func first[T any](w http.ResponseWriter, r *http.Request, watch func(cb func(T, error)) *feed.Listener) {
	ctx, cancel := context.WithTimeout(r.Context(), firstResultTimeout)
	defer cancel()
	value, err := feed.First(ctx, watch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}
