package companies

import (
	"context"
	"database/sql"
	"errors"
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

func companyRows(t *testing.T, companies ...*models.Company) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "name", "registration_number", "legal_address", "created_at", "updated_at"})
	for _, c := range companies {
		rows.AddRow(c.ID, c.OwnerID, c.Name, c.RegistrationNumber, c.LegalAddress, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+companies\s*\(owner_id,\s*name,\s*registration_number,\s*legal_address\)`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u-1", "Acme OÜ", "enc-rn", "1 Main St").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("c-1", now, now))

	c := &models.Company{OwnerID: "u-1", Name: "Acme OÜ", RegistrationNumber: "enc-rn", LegalAddress: "1 Main St"}
	got, err := repo.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "c-1" {
		t.Fatalf("unexpected company: %+v", got)
	}
}

func TestGetByRegistrationNumber_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*\s+FROM\s+companies\s+WHERE\s+registration_number\s*=\s*\$1\s*$`

	now := time.Now()
	want := &models.Company{ID: "c-1", OwnerID: "u-1", Name: "Acme", RegistrationNumber: "enc-rn", LegalAddress: "", CreatedAt: now, UpdatedAt: now}
	mock.ExpectQuery(q).WithArgs("enc-rn").WillReturnRows(companyRows(t, want))

	got, err := repo.GetByRegistrationNumber(context.Background(), "enc-rn")
	if err != nil {
		t.Fatalf("GetByRegistrationNumber error: %v", err)
	}
	if got.ID != "c-1" || got.RegistrationNumber != "enc-rn" {
		t.Fatalf("unexpected company: %+v", got)
	}
}

func TestGetByRegistrationNumber_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*\s+FROM\s+companies\s+WHERE\s+registration_number\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByRegistrationNumber(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*\s+FROM\s+companies\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s*$`

	now := time.Now()
	a := &models.Company{ID: "c-1", OwnerID: "u-1", Name: "A", RegistrationNumber: "r1", CreatedAt: now, UpdatedAt: now}
	b := &models.Company{ID: "c-2", OwnerID: "u-1", Name: "B", RegistrationNumber: "r2", CreatedAt: now, UpdatedAt: now}
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(companyRows(t, a, b))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c-1" || got[1].ID != "c-2" {
		t.Fatalf("unexpected companies: %+v", got)
	}
}
