package shoppingitems

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

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

var selectCols = []string{"id", "list_id", "name", "quantity", "notes", "checked",
	"store_tag_id", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+shopping_items\s*\(id,\s*list_id,\s*name,\s*quantity,\s*notes,\s*checked,\s*store_tag_id,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*NULLIF\(\$7,\s*''\),\s*\$8\)\s*$`

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(q).
		WithArgs("i-1", "l-1", "Milk", 2, "semi skimmed", false, "", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.ShoppingItem{
		ID: "i-1", ListID: "l-1", Name: "Milk", Quantity: 2, Notes: "semi skimmed", CreatedAt: created})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "i-1" {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestGetByID_Tagged(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(selectCols).
		AddRow("i-1", "l-1", "Milk", 2, "", false, "t-1", created, nil)
	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+shopping_items\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("i-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "i-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.StoreTagID != "t-1" || got.UpdatedAt != nil {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.+\s+FROM\s+shopping_items`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+shopping_items\s+WHERE\s+list_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s*$`

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(selectCols).
		AddRow("i-1", "l-1", "Milk", 2, "", false, nil, created, nil).
		AddRow("i-2", "l-1", "Bread", 1, "", true, "t-1", created.Add(time.Minute), created.Add(time.Hour))
	mock.ExpectQuery(q).WithArgs("l-1").WillReturnRows(rows)

	got, err := repo.ListByList(context.Background(), "l-1")
	if err != nil {
		t.Fatalf("ListByList error: %v", err)
	}
	if len(got) != 2 || got[1].Checked != true || got[1].UpdatedAt == nil {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+shopping_items\s+SET\s+name\s*=\s*\$2,\s*quantity\s*=\s*\$3,\s*notes\s*=\s*\$4,\s*checked\s*=\s*\$5,\s*store_tag_id\s*=\s*NULLIF\(\$6,\s*''\),\s*updated_at\s*=\s*\$7\s+WHERE\s+id\s*=\s*\$1\s*$`

	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(q).
		WithArgs("i-1", "Milk", 3, "", true, "t-1", updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.ShoppingItem{
		ID: "i-1", Name: "Milk", Quantity: 3, Checked: true, StoreTagID: "t-1", UpdatedAt: &updated})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestUpdate_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+shopping_items\s+SET\s+name`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.ShoppingItem{ID: "ghost"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteChecked(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+shopping_items\s+WHERE\s+list_id\s*=\s*\$1\s+AND\s+checked\s*$`

	mock.ExpectExec(q).
		WithArgs("l-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteChecked(context.Background(), "l-1")
	if err != nil {
		t.Fatalf("DeleteChecked error: %v", err)
	}
	if n != 4 {
		t.Fatalf("unexpected count: %d", n)
	}
}

func TestClearTag(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+shopping_items\s+SET\s+store_tag_id\s*=\s*NULL\s+WHERE\s+store_tag_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.ClearTag(context.Background(), "t-1"); err != nil {
		t.Fatalf("ClearTag error: %v", err)
	}
}
