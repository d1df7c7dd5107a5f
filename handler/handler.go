// Package handler exposes the attendance service over HTTP: session
// lifecycle and code issuance for authenticated presenters, claim submission
// for attendees, and a websocket feed of accepted claims.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/rollcall/core/attendance"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/middleware"
	"github.com/dmitrymomot/rollcall/pkg/broadcast"
	"github.com/dmitrymomot/rollcall/pkg/jwt"
	"github.com/dmitrymomot/rollcall/pkg/ratelimiter"
)

// SessionGauge tracks the number of open sessions.
type SessionGauge interface {
	SessionOpened()
	SessionClosed()
}

// Handler carries the service dependencies shared by all endpoints.
type Handler struct {
	log      *slog.Logger
	registry *session.Registry
	claims   *attendance.Service
	feed     broadcast.Broadcaster[attendance.Receipt]

	claimBaseURL string
	gauge        SessionGauge
	instrument   middleware.Instrument
	metrics      http.Handler
	readiness    []func(context.Context) error
}

// Option configures optional handler collaborators.
type Option func(*Handler)

// WithClaimBaseURL sets the base URL embedded in claim links and QR codes.
func WithClaimBaseURL(base string) Option {
	return func(h *Handler) {
		h.claimBaseURL = base
	}
}

// WithSessionGauge reports session open/close transitions.
func WithSessionGauge(gauge SessionGauge) Option {
	return func(h *Handler) {
		h.gauge = gauge
	}
}

// WithInstrument records per-request metrics in the logging middleware.
func WithInstrument(instrument middleware.Instrument) Option {
	return func(h *Handler) {
		h.instrument = instrument
	}
}

// WithMetricsHandler mounts a scrape endpoint at /metrics.
func WithMetricsHandler(metrics http.Handler) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

// WithReadinessChecks registers dependency probes for /readyz.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(h *Handler) {
		h.readiness = append(h.readiness, checks...)
	}
}

// New creates a Handler over the session registry and attendance service.
func New(log *slog.Logger, registry *session.Registry, claims *attendance.Service, feed broadcast.Broadcaster[attendance.Receipt], opts ...Option) *Handler {
	h := &Handler{
		log:          log,
		registry:     registry,
		claims:       claims,
		feed:         feed,
		claimBaseURL: "/scan",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes assembles the router. Presenter endpoints sit behind bearer token
// auth; claim submission is public but rate limited per client IP.
func (h *Handler) Routes(tokens *jwt.Service, limiter ratelimiter.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(h.log, h.instrument))

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.PresenterAuth(tokens))
			r.Post("/sessions", h.openSession)
			r.Get("/sessions/{id}", h.getSession)
			r.Delete("/sessions/{id}", h.closeSession)
			r.Get("/sessions/{id}/code", h.issueCode)
			r.Get("/sessions/{id}/live", h.liveFeed)
		})

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(middleware.RateLimit(limiter))
			}
			r.Post("/claims", h.submitClaim)
		})
	})

	return r
}
