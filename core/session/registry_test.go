package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// provisionedVault returns a provider with a secret for "teacher-1".
func provisionedVault(t *testing.T) *secrets.Vault {
	t.Helper()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	vault, err := secrets.NewVault(secrets.NewMemoryStore(), key)
	require.NoError(t, err)

	_, err = vault.Provision(context.Background(), "teacher-1")
	require.NoError(t, err)
	return vault
}

func TestRegistry_Open(t *testing.T) {
	t.Parallel()

	t.Run("opens session for provisioned presenter", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		sess, err := registry.Open(context.Background(), "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, sess.ID)
		assert.Equal(t, "teacher-1", sess.PresenterID)
		assert.True(t, sess.IsOpen())
		assert.False(t, sess.ProximityEnforced())
	})

	t.Run("fails for unprovisioned presenter", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		_, err := registry.Open(context.Background(), "stranger", session.OpenParams{})
		assert.ErrorIs(t, err, secrets.ErrNotProvisioned)
	})

	t.Run("requires presenter identity", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		_, err := registry.Open(context.Background(), "", session.OpenParams{})
		assert.ErrorIs(t, err, session.ErrMissingPresenter)
	})

	t.Run("applies default proximity radius", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t),
			session.WithDefaultProximityRadius(50))

		sess, err := registry.Open(context.Background(), "teacher-1", session.OpenParams{
			Location: &geo.Location{Latitude: 52.52, Longitude: 13.405},
		})
		require.NoError(t, err)

		assert.True(t, sess.ProximityEnforced())
		assert.Equal(t, float64(50), sess.ProximityRadius)
	})

	t.Run("rejects invalid location", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		_, err := registry.Open(context.Background(), "teacher-1", session.OpenParams{
			Location: &geo.Location{Latitude: 120, Longitude: 0},
		})
		assert.ErrorIs(t, err, geo.ErrInvalidLocation)
	})
}

func TestRegistry_Close(t *testing.T) {
	t.Parallel()

	t.Run("closes open session", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))
		ctx := context.Background()

		sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		require.NoError(t, registry.Close(ctx, sess.ID))

		got, err := registry.Lookup(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, got.IsOpen())
		assert.False(t, got.ClosedAt.IsZero())
	})

	t.Run("second close is a no-op", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))
		ctx := context.Background()

		sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		require.NoError(t, registry.Close(ctx, sess.ID))
		assert.NoError(t, registry.Close(ctx, sess.ID))
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		err := registry.Close(context.Background(), uuid.New())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("concurrent closes agree on terminal state", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))
		ctx := context.Background()

		sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, registry.Close(ctx, sess.ID))
			}()
		}
		wg.Wait()

		got, err := registry.Lookup(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, got.IsOpen())
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("unknown session is not found", func(t *testing.T) {
		t.Parallel()

		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t))

		_, err := registry.Lookup(context.Background(), uuid.New())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expires stale session lazily", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		clock := now
		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t),
			session.WithMaxAge(time.Hour),
			session.WithClock(func() time.Time { return clock }),
		)
		ctx := context.Background()

		sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		clock = now.Add(time.Hour + time.Minute)

		got, err := registry.Lookup(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, got.IsOpen())
		assert.Equal(t, now.Add(time.Hour), got.ClosedAt)

		// The transition is persisted, so a fresh read agrees.
		again, err := registry.Lookup(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, again.IsOpen())
	})

	t.Run("zero max age disables expiry", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		clock := now
		registry := session.NewRegistry(session.NewMemoryStore(), provisionedVault(t),
			session.WithMaxAge(0),
			session.WithClock(func() time.Time { return clock }),
		)
		ctx := context.Background()

		sess, err := registry.Open(ctx, "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		clock = now.Add(240 * time.Hour)

		got, err := registry.Lookup(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
	})
}
