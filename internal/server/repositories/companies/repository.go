// Package companies provides the persistent store for company profiles.
// The registration_number column holds deterministic ciphertext, so
// equality lookups run directly against the encrypted value.
package companies

import (
	"context"

	"github.com/dpavlenko/regvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Company, error)

	// GetByRegistrationNumber looks up a company by the encrypted
	// registration number. The caller encrypts the lookup value with the
	// deterministic cipher before calling.
	GetByRegistrationNumber(ctx context.Context, encrypted string) (*models.Company, error)
}
