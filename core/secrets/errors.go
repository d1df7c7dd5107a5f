package secrets

import "errors"

var (
	// ErrNotProvisioned is returned when a presenter has no shared secret.
	ErrNotProvisioned = errors.New("presenter has no provisioned secret")
	// ErrAlreadyProvisioned is returned when provisioning a presenter twice.
	ErrAlreadyProvisioned = errors.New("presenter already has a secret")
	// ErrInvalidKey is returned when the encryption key is not 32 bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")
	// ErrEncryption is returned when sealing a secret for storage fails.
	ErrEncryption = errors.New("failed to encrypt secret")
	// ErrDecryption is returned when a stored secret cannot be opened,
	// typically because it was sealed under a different key.
	ErrDecryption = errors.New("failed to decrypt secret")
	// ErrStore is returned when the backing store fails.
	ErrStore = errors.New("secret store operation failed")
)
