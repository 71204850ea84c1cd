package companies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/dbx"
	"github.com/dpavlenko/regvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, owner_id, name, registration_number, legal_address, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	query := `
		INSERT INTO companies (owner_id, name, registration_number, legal_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		company.OwnerID, company.Name, company.RegistrationNumber, company.LegalAddress).
		Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return company, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	query := `SELECT ` + selectColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByRegistrationNumber(ctx context.Context, encrypted string) (*models.Company, error) {
	query := `SELECT ` + selectColumns + ` FROM companies WHERE registration_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, encrypted))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Company, error) {
	query := `SELECT ` + selectColumns + ` FROM companies WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Company
	for rows.Next() {
		c := &models.Company{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.RegistrationNumber,
			&c.LegalAddress, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Company, error) {
	c := &models.Company{}
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.RegistrationNumber,
		&c.LegalAddress, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
