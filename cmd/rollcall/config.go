package main

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/httpserver"
	"github.com/dmitrymomot/rollcall/integration/database/pg"
	"github.com/dmitrymomot/rollcall/integration/database/redis"
	"github.com/dmitrymomot/rollcall/pkg/ratelimiter"
)

var errInvalidVaultKey = errors.New("VAULT_KEY must be 32 bytes, base64 encoded")

// Config aggregates all application settings from the environment.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"rollcall"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	// VaultKey encrypts presenter secrets at rest; 32 bytes, base64 encoded.
	VaultKey string `env:"VAULT_KEY,required"`

	// JWTSigningKey signs presenter bearer tokens; at least 32 bytes.
	JWTSigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	// ClaimBaseURL is embedded in claim links and QR codes.
	ClaimBaseURL string `env:"CLAIM_BASE_URL" envDefault:"http://localhost:8080/scan"`

	// SkewWindow is the verification clock-skew tolerance in 30s steps.
	SkewWindow int `env:"TOTP_SKEW_WINDOW" envDefault:"1"`

	// GuardRetention bounds replay-guard entries; must outlive the longest
	// session so a slot is never released while its session can still verify.
	GuardRetention time.Duration `env:"REPLAY_GUARD_RETENTION" envDefault:"8h"`

	FeedBuffer int `env:"LIVE_FEED_BUFFER" envDefault:"32"`

	Server    httpserver.Config
	DB        pg.Config
	Redis     redis.Config
	Session   session.Config
	RateLimit ratelimiter.Config
}

// IsProduction reports whether the app runs with production logging.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) vaultKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.VaultKey)
	if err != nil || len(key) != 32 {
		return nil, errInvalidVaultKey
	}
	return key, nil
}
