package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for attendance sessions.
// Implementations must handle concurrent access safely and return
// ErrNotFound for unknown IDs.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	Save(ctx context.Context, sess Session) error
}
