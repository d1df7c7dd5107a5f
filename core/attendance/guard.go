package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ReplayGuard is the single-use gate above the stateless credential check.
// Mark must be an atomic insert-if-absent: of any number of concurrent calls
// with the same (sessionID, key), exactly one observes true.
type ReplayGuard interface {
	// Mark records the key for the session. Returns false when the key was
	// already marked. An error reports guard infrastructure failure, not a
	// duplicate.
	Mark(ctx context.Context, sessionID uuid.UUID, key string) (bool, error)
}

// MemoryGuard is an in-process ReplayGuard backed by an expiring cache.
// Entries outlive any session's claim window and are evicted afterwards, so
// the guard's footprint tracks active sessions rather than history.
type MemoryGuard struct {
	cache *gocache.Cache
}

// NewMemoryGuard creates a guard whose entries expire after retention.
// Retention must cover the session MaxAge; entries that expire while a
// session still accepts claims would re-open a replay window.
func NewMemoryGuard(retention time.Duration) *MemoryGuard {
	if retention <= 0 {
		retention = gocache.NoExpiration
	}
	return &MemoryGuard{
		cache: gocache.New(retention, retention/2),
	}
}

// Mark implements ReplayGuard. go-cache's Add is check-and-insert under one
// lock, which provides the required atomicity.
func (g *MemoryGuard) Mark(_ context.Context, sessionID uuid.UUID, key string) (bool, error) {
	err := g.cache.Add(sessionID.String()+"\x00"+key, struct{}{}, gocache.DefaultExpiration)
	if err != nil {
		// Add only fails when the entry already exists.
		return false, nil
	}
	return true, nil
}
