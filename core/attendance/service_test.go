package attendance_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rollcall/core/attendance"
	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/core/totp"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// fixture wires a service over real in-memory collaborators with a pinned,
// mutable clock.
type fixture struct {
	service  *attendance.Service
	registry *session.Registry
	records  *attendance.MemoryRecordStore
	secret   string
	clock    *time.Time
}

func newFixture(t *testing.T, opts ...attendance.ServiceOption) *fixture {
	t.Helper()

	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	vault, err := secrets.NewVault(secrets.NewMemoryStore(), key)
	require.NoError(t, err)
	secret, err := vault.Provision(context.Background(), "teacher-1")
	require.NoError(t, err)

	// Step-aligned base time keeps window arithmetic predictable.
	clock := time.Unix(1699999980, 0)
	now := func() time.Time { return clock }

	registry := session.NewRegistry(session.NewMemoryStore(), vault,
		session.WithClock(now))
	records := attendance.NewMemoryRecordStore()

	opts = append([]attendance.ServiceOption{attendance.WithServiceClock(now)}, opts...)
	service := attendance.NewService(registry, vault, attendance.NewMemoryGuard(time.Hour), records, opts...)

	return &fixture{
		service:  service,
		registry: registry,
		records:  records,
		secret:   secret,
		clock:    &clock,
	}
}

func (f *fixture) openSession(t *testing.T, params session.OpenParams) session.Session {
	t.Helper()

	sess, err := f.registry.Open(context.Background(), "teacher-1", params)
	require.NoError(t, err)
	return sess
}

func (f *fixture) codeAt(t *testing.T, at time.Time) string {
	t.Helper()

	code, err := totp.GenerateAt(f.secret, at)
	require.NoError(t, err)
	return code
}

func TestService_SubmitClaim(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid claim and persists record", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})
		at := f.clock.Add(20 * time.Second)

		receipt, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:    sess.ID,
			Code:         f.codeAt(t, at),
			ClaimantID:   "alice",
			ClaimantName: "Alice",
			At:           at,
		})
		require.NoError(t, err)

		assert.Equal(t, sess.ID, receipt.SessionID)
		assert.Equal(t, "alice", receipt.ClaimantID)
		assert.Equal(t, at, receipt.MarkedAt)

		stored := f.records.BySession(sess.ID)
		require.Len(t, stored, 1)
		assert.Equal(t, "teacher-1", stored[0].PresenterID)
		assert.Equal(t, "alice", stored[0].ClaimantID)
	})

	t.Run("repeating an accepted claim is a duplicate", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})
		at := f.clock.Add(20 * time.Second)
		claim := attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			At:         at,
		}

		_, err := f.service.SubmitClaim(context.Background(), claim)
		require.NoError(t, err)

		_, err = f.service.SubmitClaim(context.Background(), claim)
		assert.ErrorIs(t, err, attendance.ErrDuplicateClaim)
	})

	t.Run("stale code is an invalid credential", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})

		code := f.codeAt(t, *f.clock)
		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       code,
			ClaimantID: "bob",
			At:         f.clock.Add(95 * time.Second),
		})
		assert.ErrorIs(t, err, attendance.ErrInvalidCredential)
	})

	t.Run("code from previous step passes within skew window", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})

		code := f.codeAt(t, *f.clock)
		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       code,
			ClaimantID: "bob",
			At:         f.clock.Add(45 * time.Second),
		})
		assert.NoError(t, err)
	})

	t.Run("exactly one of concurrent duplicates wins", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})
		at := f.clock.Add(10 * time.Second)
		claim := attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			At:         at,
		}

		const claims = 16
		results := make([]error, claims)
		var wg sync.WaitGroup
		for i := 0; i < claims; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = f.service.SubmitClaim(context.Background(), claim)
			}()
		}
		wg.Wait()

		var accepted, duplicates int
		for _, err := range results {
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, attendance.ErrDuplicateClaim):
				duplicates++
			default:
				t.Fatalf("unexpected outcome: %v", err)
			}
		}
		assert.Equal(t, 1, accepted)
		assert.Equal(t, claims-1, duplicates)
		assert.Len(t, f.records.BySession(sess.ID), 1)
	})

	t.Run("closed session rejects even valid codes", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})
		at := f.clock.Add(10 * time.Second)
		require.NoError(t, f.registry.Close(context.Background(), sess.ID))

		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			At:         at,
		})
		assert.ErrorIs(t, err, attendance.ErrSessionInactive)
	})

	t.Run("unknown session reads as inactive", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  uuid.New(),
			Code:       "123456",
			ClaimantID: "alice",
		})
		assert.ErrorIs(t, err, attendance.ErrSessionInactive)
	})

	t.Run("credential check precedes proximity check", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{
			Location:        &geo.Location{Latitude: 52.52, Longitude: 13.405},
			ProximityRadius: 50,
		})

		// Wrong code and hopeless location: the rejection must name the
		// credential, leaking nothing about the location policy.
		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       "000000",
			ClaimantID: "alice",
			Location:   &geo.Location{Latitude: 48.85, Longitude: 2.35},
			At:         *f.clock,
		})
		assert.ErrorIs(t, err, attendance.ErrInvalidCredential)
	})

	t.Run("out-of-range claimant is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		room := geo.Location{Latitude: 52.5200, Longitude: 13.4050}
		sess := f.openSession(t, session.OpenParams{Location: &room, ProximityRadius: 50})
		at := f.clock.Add(5 * time.Second)

		// ~0.0018 degrees latitude is roughly 200 m.
		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			Location:   &geo.Location{Latitude: 52.5218, Longitude: 13.4050},
			At:         at,
		})
		assert.ErrorIs(t, err, attendance.ErrOutOfRange)
	})

	t.Run("missing location fails when proximity enforced", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		room := geo.Location{Latitude: 52.5200, Longitude: 13.4050}
		sess := f.openSession(t, session.OpenParams{Location: &room, ProximityRadius: 50})
		at := f.clock.Add(5 * time.Second)

		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			At:         at,
		})
		assert.ErrorIs(t, err, attendance.ErrLocationRequired)
	})

	t.Run("nearby claimant passes proximity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		room := geo.Location{Latitude: 52.5200, Longitude: 13.4050}
		sess := f.openSession(t, session.OpenParams{Location: &room, ProximityRadius: 50})
		at := f.clock.Add(5 * time.Second)

		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  sess.ID,
			Code:       f.codeAt(t, at),
			ClaimantID: "alice",
			Location:   &geo.Location{Latitude: 52.5201, Longitude: 13.4051},
			At:         at,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects structurally incomplete claims", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})

		_, err := f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID: sess.ID,
			Code:      "123456",
		})
		assert.ErrorIs(t, err, attendance.ErrInvalidClaim)
	})
}

// mockRecordStore lets tests fail the durable write.
type mockRecordStore struct {
	mock.Mock
}

func (m *mockRecordStore) Persist(ctx context.Context, record attendance.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func TestService_SubmitClaim_PersistenceFailure(t *testing.T) {
	t.Parallel()

	t.Run("storage failure consumes the replay slot", func(t *testing.T) {
		t.Parallel()

		key, err := secrets.GenerateKey()
		require.NoError(t, err)
		vault, err := secrets.NewVault(secrets.NewMemoryStore(), key)
		require.NoError(t, err)
		secret, err := vault.Provision(context.Background(), "teacher-1")
		require.NoError(t, err)

		clock := time.Unix(1699999980, 0)
		registry := session.NewRegistry(session.NewMemoryStore(), vault,
			session.WithClock(func() time.Time { return clock }))
		sess, err := registry.Open(context.Background(), "teacher-1", session.OpenParams{})
		require.NoError(t, err)

		store := &mockRecordStore{}
		store.On("Persist", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

		service := attendance.NewService(registry, vault, attendance.NewMemoryGuard(time.Hour), store,
			attendance.WithServiceClock(func() time.Time { return clock }))

		code, err := totp.GenerateAt(secret, clock)
		require.NoError(t, err)
		claim := attendance.Claim{
			SessionID:  sess.ID,
			Code:       code,
			ClaimantID: "alice",
			At:         clock,
		}

		_, err = service.SubmitClaim(context.Background(), claim)
		assert.ErrorIs(t, err, attendance.ErrPersistence)

		// The slot stays consumed: the identical claim is now a duplicate,
		// routed to reconciliation rather than re-accepted.
		_, err = service.SubmitClaim(context.Background(), claim)
		assert.ErrorIs(t, err, attendance.ErrDuplicateClaim)

		store.AssertExpectations(t)
	})
}

func TestService_Issue(t *testing.T) {
	t.Parallel()

	t.Run("issues current code for open session", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})

		target, err := f.service.Issue(context.Background(), sess.ID)
		require.NoError(t, err)

		assert.Equal(t, sess.ID, target.SessionID)
		assert.Equal(t, f.codeAt(t, *f.clock), target.Code)
		assert.Equal(t, *f.clock, target.IssuedAt)

		// Step-aligned clock: full step plus one window step remains.
		assert.Equal(t, 2*totp.Period, target.ExpiresIn)
	})

	t.Run("issued code round-trips through verification", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})

		target, err := f.service.Issue(context.Background(), sess.ID)
		require.NoError(t, err)

		_, err = f.service.SubmitClaim(context.Background(), attendance.Claim{
			SessionID:  target.SessionID,
			Code:       target.Code,
			ClaimantID: "alice",
			At:         f.clock.Add(20 * time.Second),
		})
		assert.NoError(t, err)
	})

	t.Run("closed session cannot issue", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.openSession(t, session.OpenParams{})
		require.NoError(t, f.registry.Close(context.Background(), sess.ID))

		_, err := f.service.Issue(context.Background(), sess.ID)
		assert.ErrorIs(t, err, attendance.ErrSessionInactive)
	})

	t.Run("unknown session cannot issue", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, err := f.service.Issue(context.Background(), uuid.New())
		assert.ErrorIs(t, err, attendance.ErrSessionInactive)
	})
}

func TestClaimTarget_URL(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("2da9e1a6-9f6e-4bd9-84d5-b815e3e5a827")
	target := attendance.ClaimTarget{SessionID: id, Code: "482913"}

	url := target.URL("https://app.example.com/scan")
	assert.Equal(t, "https://app.example.com/scan?code=482913&session="+id.String(), url)
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "accepted", attendance.Outcome(nil))
	assert.Equal(t, "duplicate", attendance.Outcome(attendance.ErrDuplicateClaim))
	assert.Equal(t, "invalid_credential", attendance.Outcome(attendance.ErrInvalidCredential))
	assert.Equal(t, "persistence_error", attendance.Outcome(errors.Join(attendance.ErrPersistence, errors.New("io"))))
	assert.Equal(t, "error", attendance.Outcome(errors.New("unclassified")))
}
