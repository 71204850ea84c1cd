package keypairs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/dbx"
	"github.com/dpavlenko/regvault/internal/server/models"
)

// PostgresRepository implements the key-pair store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add persists a new key pair.
func (r *PostgresRepository) Add(ctx context.Context, kp *models.KeyPair) error {
	query := `
		INSERT INTO key_pairs (id, public_key, private_key, active, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		kp.ID, kp.PublicKey, kp.PrivateKey, kp.Active, kp.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns a key pair iff it is unexpired. Expired rows are
// filtered out here, so absence and expiry are indistinguishable to the
// caller. Consumed pairs are returned with Active false and UsedAt set;
// the caller decides how to treat reuse.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.KeyPair, error) {
	query := `
		SELECT id, public_key, private_key, active, created_at, expires_at, used_at
		FROM key_pairs
		WHERE id = $1 AND expires_at > now()
	`
	kp := &models.KeyPair{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&kp.ID, &kp.PublicKey, &kp.PrivateKey, &kp.Active, &kp.CreatedAt, &kp.ExpiresAt, &kp.UsedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return kp, nil
}

// Claim consumes the key pair with a single conditional update. Zero
// affected rows means the pair was already used, expired or never
// existed, and maps to common.ErrorNotFound.
func (r *PostgresRepository) Claim(ctx context.Context, id string) error {
	query := `
		UPDATE key_pairs
		SET active = false, used_at = now()
		WHERE id = $1 AND active AND used_at IS NULL AND expires_at > now()
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
