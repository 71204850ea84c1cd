package documents

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

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query := `
		INSERT INTO documents (company_id, title, storage_key, upload_status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, doc.CompanyID, doc.Title, doc.StorageKey).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	doc.UploadStatus = "pending"
	return doc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, company_id, title, storage_key, upload_status, created_at
		FROM documents
		WHERE id = $1
	`
	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.CompanyID, &doc.Title, &doc.StorageKey, &doc.UploadStatus, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `
		UPDATE documents SET upload_status = 'completed'
		WHERE id = $1
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
