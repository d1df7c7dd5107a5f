package attendance

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// Claim is a single attendee's submission: a session reference, the code
// scanned from the presenter's display, the claimant identity, and an
// optional location. Claims are transient protocol input; only accepted
// claims become durable Records.
type Claim struct {
	SessionID    uuid.UUID
	Code         string
	ClaimantID   string
	ClaimantName string
	Location     *geo.Location

	// At is the claim timestamp used for credential verification.
	// Zero means "now".
	At time.Time
}

func (c Claim) validate() error {
	if c.SessionID == uuid.Nil || c.Code == "" || c.ClaimantID == "" {
		return ErrInvalidClaim
	}
	return nil
}

// Receipt confirms an accepted claim.
type Receipt struct {
	SessionID    uuid.UUID `json:"session_id"`
	ClaimantID   string    `json:"claimant_id"`
	ClaimantName string    `json:"claimant_name,omitempty"`
	MarkedAt     time.Time `json:"marked_at"`
}

// Record is the immutable attendance row handed to the record store once a
// claim passes every check.
type Record struct {
	SessionID    uuid.UUID
	PresenterID  string
	ClaimantID   string
	ClaimantName string
	Location     *geo.Location
	MarkedAt     time.Time
}

// ClaimTarget is the issuance result: an opaque reference binding a session
// to its current code. Its rendered form (URL, QR image) is the caller's
// concern.
type ClaimTarget struct {
	SessionID uuid.UUID
	Code      string
	IssuedAt  time.Time

	// ExpiresIn is how long the code remains verifiable, including the
	// verifier's skew window. Refresh the display before it elapses.
	ExpiresIn time.Duration
}

// URL serializes the target as a claim-submission link under base,
// e.g. https://app.example.com/scan.
func (t ClaimTarget) URL(base string) string {
	q := url.Values{}
	q.Set("session", t.SessionID.String())
	q.Set("code", t.Code)
	return base + "?" + q.Encode()
}
