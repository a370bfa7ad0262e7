package households

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/server/models"
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

	q := `(?s)^INSERT\s+INTO\s+households\s*\(id,\s*name\)\s*VALUES\s*\(\$1,\s*\$2\)\s*$`

	mock.ExpectExec(q).
		WithArgs("h-1", "Smith family").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.Household{ID: "h-1", Name: "Smith family"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "h-1" {
		t.Fatalf("unexpected household: %+v", got)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name\s+FROM\s+households\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("h-1", "Smith family")
	mock.ExpectQuery(q).WithArgs("h-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "h-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "Smith family" {
		t.Fatalf("unexpected household: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+households`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestRename(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+households\s+SET\s+name\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("h-1", "New name").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Rename(context.Background(), "h-1", "New name"); err != nil {
		t.Fatalf("Rename error: %v", err)
	}
}

func TestRename_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+households\s+SET\s+name`).
		WithArgs("ghost", "New name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Rename(context.Background(), "ghost", "New name")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
