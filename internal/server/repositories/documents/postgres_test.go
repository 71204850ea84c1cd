package documents

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

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+documents\s*\(company_id,\s*title,\s*storage_key,\s*upload_status\)`

	mock.ExpectQuery(q).
		WithArgs("c-1", "Articles of Association", "documents/2026/key").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("d-1", time.Now()))

	doc := &models.Document{CompanyID: "c-1", Title: "Articles of Association", StorageKey: "documents/2026/key"}
	got, err := repo.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "d-1" || got.UploadStatus != "pending" {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestMarkUploaded_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+documents\s+SET\s+upload_status\s*=\s*'completed'\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUploaded(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
