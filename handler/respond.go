package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/rollcall/core/attendance"
	"github.com/dmitrymomot/rollcall/core/logger"
	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/core/totp"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

type errorResponse struct {
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("response encoding failed", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	h.respond(w, status, errorResponse{
		Reason: reasonFor(err),
		Error:  publicMessage(err, status),
	})
}

// reasonFor names an error with a stable machine-readable token. Claim
// pipeline errors reuse the outcome vocabulary shared with logs and metrics.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "session_not_found"
	case errors.Is(err, secrets.ErrNotProvisioned):
		return "not_provisioned"
	case errors.Is(err, session.ErrMissingPresenter),
		errors.Is(err, totp.ErrInvalidSecret):
		return "invalid_request"
	case errors.Is(err, session.ErrSaveSession),
		errors.Is(err, secrets.ErrStore):
		return "persistence_error"
	default:
		return attendance.Outcome(err)
	}
}

// statusFor maps domain sentinel errors onto HTTP statuses. Unknown errors
// read as internal faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, attendance.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, attendance.ErrOutOfRange):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrSessionInactive),
		errors.Is(err, attendance.ErrDuplicateClaim),
		errors.Is(err, secrets.ErrNotProvisioned):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrLocationRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, attendance.ErrInvalidClaim),
		errors.Is(err, geo.ErrInvalidLocation),
		errors.Is(err, session.ErrMissingPresenter),
		errors.Is(err, totp.ErrInvalidSecret):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrPersistence),
		errors.Is(err, session.ErrSaveSession),
		errors.Is(err, secrets.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps 5xx details out of response bodies; sentinel errors
// are already client-safe.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
