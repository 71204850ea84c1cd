// Package documents provides the metadata store for generated legal
// documents whose encrypted contents live in object storage.
package documents

import (
	"context"

	"github.com/dpavlenko/regvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	MarkUploaded(ctx context.Context, id string) error
}
