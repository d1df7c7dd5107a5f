package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/rollcall/core/attendance"
)

// RecordStore implements attendance.RecordStore on PostgreSQL.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates an attendance record store over the given pool.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Persist implements attendance.RecordStore. ON CONFLICT DO NOTHING makes
// the write idempotent per (session, claimant): the replay guard already
// decided admission, so a racing second insert must not fail the claim.
func (s *RecordStore) Persist(ctx context.Context, record attendance.Record) error {
	var lat, lng *float64
	if record.Location != nil {
		lat, lng = &record.Location.Latitude, &record.Location.Longitude
	}

	_, err := db(ctx, s.pool).Exec(ctx, `
		INSERT INTO attendance (session_id, claimant_id, claimant_name, lat, lng, marked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, claimant_id) DO NOTHING`,
		record.SessionID, record.ClaimantID, record.ClaimantName, lat, lng, record.MarkedAt)
	return err
}
