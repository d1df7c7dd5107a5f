// Package secrets manages per-presenter TOTP shared secrets.
//
// Secrets are generated once per presenter, encrypted with AES-256-GCM under
// an HKDF-derived per-presenter key, and persisted through a pluggable Store.
// The Provider interface is what the verification path consumes: it resolves
// a presenter identity to a plaintext secret or reports ErrNotProvisioned.
package secrets

import (
	"context"
	"errors"

	"github.com/dmitrymomot/rollcall/core/totp"
)

// Provider resolves the shared secret bound to a presenter identity.
type Provider interface {
	// SecretFor returns the plaintext base32 secret for the presenter,
	// or ErrNotProvisioned when none exists.
	SecretFor(ctx context.Context, presenterID string) (string, error)
}

// Store persists encrypted secrets. Implementations must be safe for
// concurrent use; values passed through Store are always ciphertext.
type Store interface {
	// Get returns the stored ciphertext, or ErrNotProvisioned when absent.
	Get(ctx context.Context, presenterID string) (string, error)
	// Put stores ciphertext for a presenter that has none yet.
	// Returns ErrAlreadyProvisioned when a secret already exists.
	Put(ctx context.Context, presenterID, ciphertext string) error
}

// Vault is the Provider implementation backed by an encrypting Store.
type Vault struct {
	store Store
	key   []byte
}

// NewVault creates a Vault sealing secrets under the given 32-byte key.
func NewVault(store Store, key []byte) (*Vault, error) {
	if len(key) != keySize {
		return nil, ErrInvalidKey
	}
	return &Vault{store: store, key: key}, nil
}

// SecretFor implements Provider.
func (v *Vault) SecretFor(ctx context.Context, presenterID string) (string, error) {
	ciphertext, err := v.store.Get(ctx, presenterID)
	if err != nil {
		if errors.Is(err, ErrNotProvisioned) {
			return "", err
		}
		return "", errors.Join(ErrStore, err)
	}

	derived, err := deriveKey(v.key, presenterID)
	if err != nil {
		return "", err
	}
	return open(derived, ciphertext)
}

// Provision generates, stores, and returns a new secret for the presenter.
// The plaintext secret is returned exactly once, for provisioning into the
// presenter's authenticator; afterwards only SecretFor can recover it.
func (v *Vault) Provision(ctx context.Context, presenterID string) (string, error) {
	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return "", err
	}

	derived, err := deriveKey(v.key, presenterID)
	if err != nil {
		return "", err
	}
	ciphertext, err := seal(derived, secret)
	if err != nil {
		return "", err
	}

	if err := v.store.Put(ctx, presenterID, ciphertext); err != nil {
		if errors.Is(err, ErrAlreadyProvisioned) {
			return "", err
		}
		return "", errors.Join(ErrStore, err)
	}
	return secret, nil
}
