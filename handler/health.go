package handler

import (
	"net/http"

	"github.com/dmitrymomot/rollcall/core/logger"
)

// healthz is the liveness probe: the process is up and serving.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ALIVE"))
}

// readyz verifies every registered dependency probe before reporting ready.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.readiness {
		if err := check(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}
