package totp

import "errors"

var (
	// ErrInvalidSecret is returned when a shared secret is empty or not valid base32.
	ErrInvalidSecret = errors.New("invalid TOTP secret")
	// ErrSecretGeneration is returned when reading random bytes for a new secret fails.
	ErrSecretGeneration = errors.New("failed to generate TOTP secret")
	// ErrMissingAccountName is returned when building a provisioning URI without an account name.
	ErrMissingAccountName = errors.New("account name is required")
)
