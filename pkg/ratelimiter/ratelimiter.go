// Package ratelimiter provides token bucket rate limiting with pluggable
// storage backends. Buckets hold Capacity tokens, refill RefillRate tokens
// every RefillInterval, and consume one token per allowed request, which
// permits short bursts while holding the average rate.
package ratelimiter

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidConfig is returned for non-positive capacity or refill parameters.
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")
	// ErrInvalidTokenCount is returned when consuming a non-positive token count.
	ErrInvalidTokenCount = errors.New("token count must be positive")
)

// Config defines a bucket's capacity and refill behavior.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"30"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

func (c Config) validate() error {
	if c.Capacity <= 0 || c.RefillRate <= 0 || c.RefillInterval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result reports the outcome of a consumption attempt.
type Result struct {
	// Remaining is the token count left after the attempt; negative when
	// the attempt was rejected.
	Remaining int
	// ResetAt is when the next refill lands.
	ResetAt time.Time
}

// Allowed reports whether the attempt was within the limit.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns the wait until the next refill, zero for allowed results.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// RateLimiter is the consumption contract.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	AllowN(ctx context.Context, key string, n int) (Result, error)
}

// Store persists bucket state. ConsumeTokens must apply refill and
// consumption atomically per key.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Bucket implements RateLimiter over a Store.
type Bucket struct {
	store  Store
	config Config
}

// NewBucket creates a rate limiter with the given store and configuration.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

// Allow consumes one token for the key.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens for the key.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, ErrInvalidTokenCount
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return Result{}, err
	}
	return Result{Remaining: remaining, ResetAt: resetAt}, nil
}

// Reset clears the bucket for a key. Administrative override.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}
