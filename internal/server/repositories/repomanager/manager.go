package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpavlenko/regvault/internal/dbx"
	"github.com/dpavlenko/regvault/internal/server/repositories/companies"
	"github.com/dpavlenko/regvault/internal/server/repositories/documents"
	"github.com/dpavlenko/regvault/internal/server/repositories/keypairs"
	"github.com/dpavlenko/regvault/internal/server/repositories/refreshtokens"
	"github.com/dpavlenko/regvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a concrete DB handle,
// which lets services hand out the same repository over *sql.DB or an
// open *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	KeyPairs(db dbx.DBTX) keypairs.Repository
	Companies(db dbx.DBTX) companies.Repository
	Documents(db dbx.DBTX) documents.Repository
}
