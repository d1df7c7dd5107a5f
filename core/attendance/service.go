package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/core/totp"
	"github.com/dmitrymomot/rollcall/pkg/broadcast"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// Sessions is the registry surface the service consumes.
type Sessions interface {
	Lookup(ctx context.Context, id uuid.UUID) (session.Session, error)
}

// Recorder receives verification outcomes for instrumentation.
type Recorder interface {
	ClaimProcessed(outcome string)
	CodeIssued()
}

// Service orchestrates attendance claims and code issuance around the
// stateless credential engine. The stateful guarantees (session liveness,
// single use, proximity) live here, layered in a fixed order: credential
// validity is always checked before the replay and proximity steps, so
// invalid submissions neither consume a replay slot nor learn anything about
// the session's location policy.
type Service struct {
	sessions Sessions
	secrets  secrets.Provider
	guard    ReplayGuard
	records  RecordStore

	window   int
	distance func(a, b geo.Location) float64
	now      func() time.Time
	feed     broadcast.Broadcaster[Receipt]
	metrics  Recorder
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithSkewWindow sets the verification clock-skew tolerance in time steps.
func WithSkewWindow(window int) ServiceOption {
	return func(s *Service) {
		if window >= 0 {
			s.window = window
		}
	}
}

// WithDistanceFunc overrides the distance collaborator. Intended for tests.
func WithDistanceFunc(fn func(a, b geo.Location) float64) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.distance = fn
		}
	}
}

// WithServiceClock overrides the time source. Intended for tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFeed publishes accepted claims to the given broadcaster.
func WithFeed(feed broadcast.Broadcaster[Receipt]) ServiceOption {
	return func(s *Service) {
		s.feed = feed
	}
}

// WithMetrics reports outcomes to the given recorder.
func WithMetrics(metrics Recorder) ServiceOption {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// NewService wires the verification protocol to its collaborators.
func NewService(sessions Sessions, provider secrets.Provider, guard ReplayGuard, records RecordStore, opts ...ServiceOption) *Service {
	s := &Service{
		sessions: sessions,
		secrets:  provider,
		guard:    guard,
		records:  records,
		window:   totp.DefaultWindow,
		distance: geo.Distance,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitClaim verifies a single attendance claim. On success the claim is
// persisted and a Receipt returned; every rejection is one of the package's
// sentinel errors. The replay-guard entry is committed before the storage
// write and is not released on later failure, so a storage error cannot
// re-open a replay window.
func (s *Service) SubmitClaim(ctx context.Context, claim Claim) (Receipt, error) {
	receipt, err := s.submit(ctx, claim)
	s.record(err)
	return receipt, err
}

func (s *Service) submit(ctx context.Context, claim Claim) (Receipt, error) {
	if err := claim.validate(); err != nil {
		return Receipt{}, err
	}
	at := claim.At
	if at.IsZero() {
		at = s.now()
	}

	sess, err := s.sessions.Lookup(ctx, claim.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Receipt{}, ErrSessionInactive
		}
		return Receipt{}, errors.Join(ErrPersistence, err)
	}
	if !sess.IsOpen() {
		return Receipt{}, ErrSessionInactive
	}

	secret, err := s.secrets.SecretFor(ctx, sess.PresenterID)
	if err != nil {
		// A session bound to a missing or broken secret is a deployment
		// fault, not a claimant mistake.
		return Receipt{}, err
	}
	ok, err := totp.ValidateAt(secret, claim.Code, at, s.window)
	if err != nil {
		return Receipt{}, err
	}
	if !ok {
		return Receipt{}, ErrInvalidCredential
	}

	marked, err := s.guard.Mark(ctx, sess.ID, claim.ClaimantID)
	if err != nil {
		return Receipt{}, errors.Join(ErrPersistence, err)
	}
	if !marked {
		return Receipt{}, ErrDuplicateClaim
	}

	if sess.ProximityEnforced() {
		if claim.Location == nil {
			return Receipt{}, ErrLocationRequired
		}
		if err := claim.Location.Validate(); err != nil {
			return Receipt{}, err
		}
		if s.distance(*sess.Location, *claim.Location) > sess.ProximityRadius {
			return Receipt{}, ErrOutOfRange
		}
	}

	record := Record{
		SessionID:    sess.ID,
		PresenterID:  sess.PresenterID,
		ClaimantID:   claim.ClaimantID,
		ClaimantName: claim.ClaimantName,
		Location:     claim.Location,
		MarkedAt:     at,
	}
	if err := s.records.Persist(ctx, record); err != nil {
		return Receipt{}, errors.Join(ErrPersistence, err)
	}

	receipt := Receipt{
		SessionID:    sess.ID,
		ClaimantID:   claim.ClaimantID,
		ClaimantName: claim.ClaimantName,
		MarkedAt:     at,
	}
	if s.feed != nil {
		_ = s.feed.Broadcast(ctx, broadcast.Message[Receipt]{Data: receipt})
	}
	return receipt, nil
}

// Issue returns the session's current claim target: its ID paired with the
// code for the current time step. Reads the clock and the secret; mutates
// nothing.
func (s *Service) Issue(ctx context.Context, sessionID uuid.UUID) (ClaimTarget, error) {
	sess, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ClaimTarget{}, ErrSessionInactive
		}
		return ClaimTarget{}, errors.Join(ErrPersistence, err)
	}
	if !sess.IsOpen() {
		return ClaimTarget{}, ErrSessionInactive
	}

	secret, err := s.secrets.SecretFor(ctx, sess.PresenterID)
	if err != nil {
		return ClaimTarget{}, err
	}

	now := s.now()
	code, err := totp.GenerateAt(secret, now)
	if err != nil {
		return ClaimTarget{}, err
	}

	if s.metrics != nil {
		s.metrics.CodeIssued()
	}

	stepEnd := now.Truncate(totp.Period).Add(totp.Period)
	return ClaimTarget{
		SessionID: sess.ID,
		Code:      code,
		IssuedAt:  now,
		ExpiresIn: stepEnd.Sub(now) + time.Duration(s.window)*totp.Period,
	}, nil
}

// record maps a submit result onto the metrics recorder.
func (s *Service) record(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ClaimProcessed(Outcome(err))
}

// Outcome names a SubmitClaim result for logs and metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrSessionInactive):
		return "session_inactive"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrDuplicateClaim):
		return "duplicate"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrLocationRequired):
		return "location_required"
	case errors.Is(err, ErrInvalidClaim):
		return "invalid_claim"
	case errors.Is(err, geo.ErrInvalidLocation):
		return "invalid_location"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "error"
	}
}
