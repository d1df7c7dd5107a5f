package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/totp"
)

func newVault(t *testing.T) *secrets.Vault {
	t.Helper()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	vault, err := secrets.NewVault(secrets.NewMemoryStore(), key)
	require.NoError(t, err)
	return vault
}

func TestNewVault(t *testing.T) {
	t.Parallel()

	t.Run("rejects short key", func(t *testing.T) {
		t.Parallel()

		_, err := secrets.NewVault(secrets.NewMemoryStore(), []byte("short"))
		assert.ErrorIs(t, err, secrets.ErrInvalidKey)
	})
}

func TestVault_Provision(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through encrypted storage", func(t *testing.T) {
		t.Parallel()

		vault := newVault(t)
		ctx := context.Background()

		secret, err := vault.Provision(ctx, "teacher-1")
		require.NoError(t, err)
		require.NotEmpty(t, secret)

		// Provisioned secret must be usable by the credential engine.
		_, err = totp.Generate(secret)
		require.NoError(t, err)

		resolved, err := vault.SecretFor(ctx, "teacher-1")
		require.NoError(t, err)
		assert.Equal(t, secret, resolved)
	})

	t.Run("refuses double provisioning", func(t *testing.T) {
		t.Parallel()

		vault := newVault(t)
		ctx := context.Background()

		_, err := vault.Provision(ctx, "teacher-1")
		require.NoError(t, err)

		_, err = vault.Provision(ctx, "teacher-1")
		assert.ErrorIs(t, err, secrets.ErrAlreadyProvisioned)
	})

	t.Run("isolates presenters", func(t *testing.T) {
		t.Parallel()

		vault := newVault(t)
		ctx := context.Background()

		first, err := vault.Provision(ctx, "teacher-1")
		require.NoError(t, err)
		second, err := vault.Provision(ctx, "teacher-2")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestVault_SecretFor(t *testing.T) {
	t.Parallel()

	t.Run("unknown presenter is not provisioned", func(t *testing.T) {
		t.Parallel()

		vault := newVault(t)

		_, err := vault.SecretFor(context.Background(), "nobody")
		assert.ErrorIs(t, err, secrets.ErrNotProvisioned)
	})

	t.Run("fails to open ciphertext sealed under another key", func(t *testing.T) {
		t.Parallel()

		store := secrets.NewMemoryStore()
		ctx := context.Background()

		keyA, err := secrets.GenerateKey()
		require.NoError(t, err)
		vaultA, err := secrets.NewVault(store, keyA)
		require.NoError(t, err)

		_, err = vaultA.Provision(ctx, "teacher-1")
		require.NoError(t, err)

		keyB, err := secrets.GenerateKey()
		require.NoError(t, err)
		vaultB, err := secrets.NewVault(store, keyB)
		require.NoError(t, err)

		_, err = vaultB.SecretFor(ctx, "teacher-1")
		assert.ErrorIs(t, err, secrets.ErrDecryption)
	})
}
