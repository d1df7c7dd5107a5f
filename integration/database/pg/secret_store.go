package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/rollcall/core/secrets"
)

// SecretStore implements secrets.Store on PostgreSQL. Values are ciphertext;
// the vault encrypts before Put and decrypts after Get.
type SecretStore struct {
	pool *pgxpool.Pool
}

// NewSecretStore creates a secret store over the given pool.
func NewSecretStore(pool *pgxpool.Pool) *SecretStore {
	return &SecretStore{pool: pool}
}

// Get implements secrets.Store.
func (s *SecretStore) Get(ctx context.Context, presenterID string) (string, error) {
	var ciphertext string
	err := db(ctx, s.pool).QueryRow(ctx,
		`SELECT ciphertext FROM presenter_secrets WHERE presenter_id = $1`,
		presenterID).Scan(&ciphertext)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", secrets.ErrNotProvisioned
	}
	if err != nil {
		return "", err
	}
	return ciphertext, nil
}

// Put implements secrets.Store. The primary key makes first-write-wins
// explicit: provisioning races surface as ErrAlreadyProvisioned.
func (s *SecretStore) Put(ctx context.Context, presenterID, ciphertext string) error {
	_, err := db(ctx, s.pool).Exec(ctx,
		`INSERT INTO presenter_secrets (presenter_id, ciphertext) VALUES ($1, $2)`,
		presenterID, ciphertext)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return secrets.ErrAlreadyProvisioned
	}
	return err
}
