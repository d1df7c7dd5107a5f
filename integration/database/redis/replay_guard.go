package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReplayGuard implements attendance.ReplayGuard on Redis, giving horizontally
// scaled verifiers one shared guard. SETNX provides the atomic
// insert-if-absent the protocol requires: of any number of racing marks for
// one key, Redis admits exactly one.
type ReplayGuard struct {
	client    *redis.Client
	retention time.Duration
}

// NewReplayGuard creates a guard whose entries expire after retention.
// Retention must cover the session MaxAge so a slot cannot free while its
// session still accepts claims.
func NewReplayGuard(client *redis.Client, retention time.Duration) *ReplayGuard {
	return &ReplayGuard{client: client, retention: retention}
}

// Mark implements attendance.ReplayGuard.
func (g *ReplayGuard) Mark(ctx context.Context, sessionID uuid.UUID, key string) (bool, error) {
	return g.client.SetNX(ctx, "rollcall:guard:"+sessionID.String()+":"+key, 1, g.retention).Result()
}
