package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/rollcall/core/session"
	"github.com/dmitrymomot/rollcall/pkg/geo"
)

// SessionStore implements session.Store on PostgreSQL.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a session store over the given pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Get implements session.Store.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (session.Session, error) {
	row := db(ctx, s.pool).QueryRow(ctx, `
		SELECT presenter_id, status, lat, lng, proximity_radius, created_at, closed_at
		FROM sessions
		WHERE id = $1`, id)

	var (
		sess     = session.Session{ID: id}
		status   string
		lat, lng sql.NullFloat64
		closedAt sql.NullTime
	)
	if err := row.Scan(&sess.PresenterID, &status, &lat, &lng, &sess.ProximityRadius, &sess.CreatedAt, &closedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}

	sess.Status = session.Status(status)
	if lat.Valid && lng.Valid {
		sess.Location = &geo.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if closedAt.Valid {
		sess.ClosedAt = closedAt.Time
	}
	return sess, nil
}

// Save implements session.Store as an upsert. The WHERE clause keeps Closed
// terminal even when saves race: an open snapshot never overwrites a closed
// row.
func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	var lat, lng *float64
	if sess.Location != nil {
		lat, lng = &sess.Location.Latitude, &sess.Location.Longitude
	}
	var closedAt *time.Time
	if !sess.ClosedAt.IsZero() {
		closedAt = &sess.ClosedAt
	}

	_, err := db(ctx, s.pool).Exec(ctx, `
		INSERT INTO sessions (id, presenter_id, status, lat, lng, proximity_radius, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, closed_at = EXCLUDED.closed_at
		WHERE sessions.status = 'open'`,
		sess.ID, sess.PresenterID, string(sess.Status), lat, lng, sess.ProximityRadius, sess.CreatedAt, closedAt)
	return err
}
