package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Attribute helpers return an empty Attr for zero inputs, so call sites can
// pass them unconditionally without nil checks.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags a record with the emitting component name.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// Event tags a record with a machine-readable event name.
func Event(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("event", name)
}

// Duration creates an attribute for a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// SessionID creates an attribute for attendance session identifiers.
func SessionID(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("session_id", id.String())
}

// PresenterID creates an attribute for the session-owning presenter.
func PresenterID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("presenter_id", id)
}

// ClaimantID creates an attribute for the attendee submitting a claim.
func ClaimantID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("claimant_id", id)
}

// Outcome tags a record with a claim verification outcome.
func Outcome(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("outcome", name)
}
