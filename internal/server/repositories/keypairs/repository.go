// Package keypairs declares the store contract for ephemeral one-time
// RSA key pairs.
package keypairs

import (
	"context"

	"github.com/dpavlenko/regvault/internal/server/models"
)

// Repository persists ephemeral key pairs and enforces their lifecycle.
type Repository interface {
	// Add persists a freshly generated key pair.
	Add(ctx context.Context, kp *models.KeyPair) error

	// GetByID returns the key pair only if it is unexpired. A missing or
	// expired pair yields common.ErrorNotFound; the caller cannot
	// distinguish those two cases. A consumed pair IS returned, with
	// Active false and UsedAt set, so consumption stays distinguishable
	// from absence.
	GetByID(ctx context.Context, id string) (*models.KeyPair, error)

	// Claim atomically consumes the key pair: it deactivates the pair and
	// records the used-at timestamp in a single conditional update that
	// only matches an active, unexpired, unused row. If no row matches,
	// implementations return common.ErrorNotFound so the caller can treat
	// the pair as already consumed. Claim is the single-use guarantee:
	// two concurrent claims of the same id cannot both succeed.
	Claim(ctx context.Context, id string) error
}
