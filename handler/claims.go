package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/core/attendance"
	"github.com/dmitrymomot/rollcall/core/logger"
	"github.com/dmitrymomot/rollcall/middleware"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

type submitClaimRequest struct {
	SessionID    uuid.UUID     `json:"session_id"`
	Code         string        `json:"code"`
	ClaimantID   string        `json:"claimant_id"`
	ClaimantName string        `json:"claimant_name,omitempty"`
	Location     *geo.Location `json:"location,omitempty"`
}

func (h *Handler) submitClaim(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, errorResponse{Reason: "invalid_request", Error: "malformed request body"})
		return
	}

	receipt, err := h.claims.SubmitClaim(r.Context(), attendance.Claim{
		SessionID:    req.SessionID,
		Code:         req.Code,
		ClaimantID:   req.ClaimantID,
		ClaimantName: req.ClaimantName,
		Location:     req.Location,
	})

	h.log.InfoContext(r.Context(), "claim processed",
		logger.SessionID(req.SessionID),
		logger.ClaimantID(req.ClaimantID),
		logger.Outcome(attendance.Outcome(err)),
		logger.RequestID(middleware.GetRequestID(r.Context())),
	)

	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, receipt)
}
