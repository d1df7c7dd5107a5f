package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// Status is the lifecycle state of an attendance session.
type Status string

const (
	// StatusOpen accepts claims.
	StatusOpen Status = "open"
	// StatusClosed is terminal; a closed session never reopens.
	StatusClosed Status = "closed"
)

// Session is one presenter-initiated attendance gathering. Identity fields
// are immutable after creation; only Status and ClosedAt transition, and only
// once. Sessions are passed by value so concurrent readers each hold their
// own snapshot.
type Session struct {
	// ID is the stable session identifier embedded in claim targets.
	ID uuid.UUID

	// PresenterID references the secret-owning presenter. The bound shared
	// secret is resolved through the secrets provider at verification time
	// and is never stored on the session.
	PresenterID string

	Status Status

	// Location is the registered gathering point. When set, proximity
	// enforcement is enabled and claims must carry a claimant location.
	Location *geo.Location

	// ProximityRadius is the acceptance threshold in meters around Location.
	ProximityRadius float64

	CreatedAt time.Time
	ClosedAt  time.Time
}

// IsOpen reports whether the session can accept claims.
func (s Session) IsOpen() bool {
	return s.Status == StatusOpen
}

// ProximityEnforced reports whether claims must pass the distance check.
func (s Session) ProximityEnforced() bool {
	return s.Location != nil
}

// expired reports whether the session has outlived maxAge at the given time.
// A maxAge of 0 disables expiry.
func (s Session) expired(maxAge time.Duration, now time.Time) bool {
	return maxAge > 0 && now.Sub(s.CreatedAt) > maxAge
}

// closed returns a copy transitioned to StatusClosed. No-op for sessions
// that are already closed, keeping the transition idempotent.
func (s Session) closed(at time.Time) Session {
	if s.Status == StatusClosed {
		return s
	}
	s.Status = StatusClosed
	s.ClosedAt = at
	return s
}
