package session

import "time"

// Config holds registry configuration with environment variable support.
type Config struct {
	// MaxAge is the policy-driven expiry: a session older than this reads
	// as Closed even when never explicitly closed. 0 disables expiry.
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"4h"`

	// DefaultProximityRadius is the threshold in meters applied when a
	// session registers a location without an explicit radius.
	DefaultProximityRadius float64 `env:"SESSION_DEFAULT_PROXIMITY_RADIUS" envDefault:"75"`
}

// Option is a functional option for configuring the registry.
type Option func(*Registry)

// WithMaxAge sets the lazy-expiry cutoff. 0 disables expiry.
func WithMaxAge(maxAge time.Duration) Option {
	return func(r *Registry) {
		r.maxAge = maxAge
	}
}

// WithDefaultProximityRadius sets the fallback proximity threshold in meters.
func WithDefaultProximityRadius(radius float64) Option {
	return func(r *Registry) {
		if radius > 0 {
			r.defaultRadius = radius
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}
