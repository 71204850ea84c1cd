package keypairs

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	addQuery   = `(?s)^\s*INSERT\s+INTO\s+key_pairs\s*\(id,\s*public_key,\s*private_key,\s*active,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	getQuery   = `(?s)^\s*SELECT\s+id,\s*public_key,\s*private_key,\s*active,\s*created_at,\s*expires_at,\s*used_at\s+FROM\s+key_pairs\s+WHERE\s+id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*now\(\)\s*$`
	claimQuery = `(?s)^\s*UPDATE\s+key_pairs\s+SET\s+active\s*=\s*false,\s*used_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+active\s+AND\s+used_at\s+IS\s+NULL\s+AND\s+expires_at\s*>\s*now\(\)\s*$`
)

func TestAdd_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	kp := &models.KeyPair{
		ID:         "kp-1",
		PublicKey:  "pub",
		PrivateKey: "priv",
		Active:     true,
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}

	mock.ExpectExec(addQuery).
		WithArgs(kp.ID, kp.PublicKey, kp.PrivateKey, kp.Active, kp.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Add(context.Background(), kp); err != nil {
		t.Fatalf("Add error: %v", err)
	}
}

func TestAdd_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(addQuery).WillReturnError(errors.New("duplicate key"))

	err := repo.Add(context.Background(), &models.KeyPair{ID: "kp-1"})
	if err == nil || !regexp.MustCompile(`db error: .*duplicate key`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "public_key", "private_key", "active", "created_at", "expires_at", "used_at"}).
		AddRow("kp-1", "pub", "priv", true, now, now.Add(30*time.Minute), nil)
	mock.ExpectQuery(getQuery).WithArgs("kp-1").WillReturnRows(rows)

	kp, err := repo.GetByID(context.Background(), "kp-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if kp.ID != "kp-1" || !kp.Active || kp.UsedAt != nil {
		t.Fatalf("unexpected key pair: %+v", kp)
	}
}

func TestGetByID_ConsumedPairIsReturned(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	used := now.Add(-time.Minute)
	rows := sqlmock.NewRows([]string{"id", "public_key", "private_key", "active", "created_at", "expires_at", "used_at"}).
		AddRow("kp-1", "pub", "priv", false, now, now.Add(30*time.Minute), used)
	mock.ExpectQuery(getQuery).WithArgs("kp-1").WillReturnRows(rows)

	kp, err := repo.GetByID(context.Background(), "kp-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if kp.Active || kp.UsedAt == nil {
		t.Fatalf("consumed state lost: %+v", kp)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestClaim_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(claimQuery).WithArgs("kp-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Claim(context.Background(), "kp-1"); err != nil {
		t.Fatalf("Claim error: %v", err)
	}
}

func TestClaim_ZeroRowsMeansConsumed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(claimQuery).WithArgs("kp-1").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Claim(context.Background(), "kp-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound for zero affected rows, got %v", err)
	}
}

func TestClaim_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(claimQuery).WithArgs("kp-1").WillReturnError(errors.New("db down"))

	err := repo.Claim(context.Background(), "kp-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
