package attendance

import "errors"

// Rejection outcomes are normal protocol results reported to the claimant,
// never system faults. ErrPersistence is the one retryable class: the claim
// was valid but unrecorded, and because the replay guard entry is committed
// before the write, resubmitting the same claim yields ErrDuplicateClaim;
// recovery goes through reconciliation, not resubmission.
var (
	// ErrSessionInactive is returned when the session is unknown, closed, or expired.
	ErrSessionInactive = errors.New("session is not accepting claims")
	// ErrInvalidCredential is returned when the presented code fails verification.
	ErrInvalidCredential = errors.New("invalid or expired code")
	// ErrDuplicateClaim is returned when the claimant was already accepted for this session.
	ErrDuplicateClaim = errors.New("attendance already marked for this session")
	// ErrOutOfRange is returned when the claimant is beyond the session's proximity threshold.
	ErrOutOfRange = errors.New("claimant location is out of range")
	// ErrLocationRequired is returned when proximity is enforced and the claim has no location.
	ErrLocationRequired = errors.New("claimant location is required")
	// ErrPersistence is returned when recording an accepted claim fails.
	ErrPersistence = errors.New("failed to record attendance")
	// ErrInvalidClaim is returned for structurally incomplete claims.
	ErrInvalidClaim = errors.New("claim is missing required fields")
)
