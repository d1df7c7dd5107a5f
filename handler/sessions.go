package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/core/logger"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/middleware"
	"github.com/dmitrymomot/rollcall/pkg/geo"
	"github.com/dmitrymomot/rollcall/pkg/qrcode"
)

type openSessionRequest struct {
	Location        *geo.Location `json:"location,omitempty"`
	ProximityRadius float64       `json:"proximity_radius,omitempty"`
}

type sessionResponse struct {
	ID              uuid.UUID     `json:"id"`
	PresenterID     string        `json:"presenter_id"`
	Status          string        `json:"status"`
	Location        *geo.Location `json:"location,omitempty"`
	ProximityRadius float64       `json:"proximity_radius,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	ClosedAt        *time.Time    `json:"closed_at,omitempty"`
}

func toSessionResponse(sess session.Session) sessionResponse {
	resp := sessionResponse{
		ID:          sess.ID,
		PresenterID: sess.PresenterID,
		Status:      string(sess.Status),
		Location:    sess.Location,
		CreatedAt:   sess.CreatedAt,
	}
	if sess.ProximityEnforced() {
		resp.ProximityRadius = sess.ProximityRadius
	}
	if !sess.ClosedAt.IsZero() {
		closedAt := sess.ClosedAt
		resp.ClosedAt = &closedAt
	}
	return resp
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respond(w, http.StatusBadRequest, errorResponse{Reason: "invalid_request", Error: "malformed request body"})
			return
		}
	}

	presenterID := middleware.GetPresenter(r.Context())
	sess, err := h.registry.Open(r.Context(), presenterID, session.OpenParams{
		Location:        req.Location,
		ProximityRadius: req.ProximityRadius,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	if h.gauge != nil {
		h.gauge.SessionOpened()
	}
	h.log.InfoContext(r.Context(), "session opened",
		logger.SessionID(sess.ID),
		logger.PresenterID(sess.PresenterID),
		logger.RequestID(middleware.GetRequestID(r.Context())),
	)
	h.respond(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	wasOpen := sess.IsOpen()
	if err := h.registry.Close(r.Context(), sess.ID); err != nil {
		h.respondError(w, err)
		return
	}

	if wasOpen && h.gauge != nil {
		h.gauge.SessionClosed()
	}
	h.log.InfoContext(r.Context(), "session closed",
		logger.SessionID(sess.ID),
		logger.PresenterID(sess.PresenterID),
	)
	h.respond(w, http.StatusNoContent, nil)
}

type claimTargetResponse struct {
	SessionID        uuid.UUID `json:"session_id"`
	Code             string    `json:"code"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresInSeconds int       `json:"expires_in_seconds"`
	ClaimURL         string    `json:"claim_url"`
	QRImage          string    `json:"qr_image"`
}

func (h *Handler) issueCode(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	target, err := h.claims.Issue(r.Context(), sess.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	claimURL := target.URL(h.claimBaseURL)
	qrImage, err := qrcode.GenerateBase64Image(claimURL, qrcode.DefaultSize)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusOK, claimTargetResponse{
		SessionID:        target.SessionID,
		Code:             target.Code,
		IssuedAt:         target.IssuedAt,
		ExpiresInSeconds: int(target.ExpiresIn.Seconds()),
		ClaimURL:         claimURL,
		QRImage:          qrImage,
	})
}

// ownedSession resolves the {id} route param and enforces that the
// authenticated presenter owns the session. Other presenters' sessions read
// as not found rather than forbidden, so session IDs are not probeable.
func (h *Handler) ownedSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Reason: "invalid_request", Error: "malformed session id"})
		return session.Session{}, false
	}

	sess, err := h.registry.Lookup(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return session.Session{}, false
	}
	if sess.PresenterID != middleware.GetPresenter(r.Context()) {
		h.respondError(w, session.ErrNotFound)
		return session.Session{}, false
	}
	return sess, true
}
