package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rollcall/core/secrets"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// Registry tracks active attendance sessions. Opening requires the presenter
// to hold a provisioned shared secret; expiry is evaluated lazily on Lookup
// rather than by a background sweep, so the registry carries no scheduler.
type Registry struct {
	store         Store
	secrets       secrets.Provider
	maxAge        time.Duration
	defaultRadius float64
	now           func() time.Time
}

// NewRegistry creates a registry over the given store and secret provider.
// Defaults: 4-hour session expiry, 75-meter proximity radius.
func NewRegistry(store Store, provider secrets.Provider, opts ...Option) *Registry {
	r := &Registry{
		store:         store,
		secrets:       provider,
		maxAge:        4 * time.Hour,
		defaultRadius: 75,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenParams carries optional settings for a new session.
type OpenParams struct {
	// Location enables proximity enforcement when set.
	Location *geo.Location
	// ProximityRadius in meters; 0 falls back to the registry default.
	ProximityRadius float64
}

// Open creates a new Open session bound to the presenter's current secret.
// Fails with secrets.ErrNotProvisioned when the presenter has no secret.
func (r *Registry) Open(ctx context.Context, presenterID string, params OpenParams) (Session, error) {
	if presenterID == "" {
		return Session{}, ErrMissingPresenter
	}

	// The secret itself is not needed here, only proof that one exists.
	if _, err := r.secrets.SecretFor(ctx, presenterID); err != nil {
		return Session{}, err
	}

	if params.Location != nil {
		if err := params.Location.Validate(); err != nil {
			return Session{}, err
		}
	}
	radius := params.ProximityRadius
	if radius <= 0 {
		radius = r.defaultRadius
	}

	sess := Session{
		ID:              uuid.New(),
		PresenterID:     presenterID,
		Status:          StatusOpen,
		Location:        params.Location,
		ProximityRadius: radius,
		CreatedAt:       r.now(),
	}

	if err := r.store.Save(ctx, sess); err != nil {
		return Session{}, errors.Join(ErrSaveSession, err)
	}
	return sess, nil
}

// Close transitions a session to Closed. Closing an already-closed session
// is a no-op, not an error.
func (r *Registry) Close(ctx context.Context, id uuid.UUID) error {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !sess.IsOpen() {
		return nil
	}

	if err := r.store.Save(ctx, sess.closed(r.now())); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	return nil
}

// Lookup returns the session's current state, applying lazy expiry: a
// session older than MaxAge reads as Closed and the transition is persisted
// on observation. Persisting the transition is best effort; the returned
// snapshot is authoritative either way.
func (r *Registry) Lookup(ctx context.Context, id uuid.UUID) (Session, error) {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}

	if sess.IsOpen() && sess.expired(r.maxAge, r.now()) {
		sess = sess.closed(sess.CreatedAt.Add(r.maxAge))
		_ = r.store.Save(ctx, sess)
	}
	return sess, nil
}
