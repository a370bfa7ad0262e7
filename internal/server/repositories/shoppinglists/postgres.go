// Package shoppinglists provides a PostgreSQL-backed repository for shopping lists.
package shoppinglists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/martinsb/pantrylist/internal/common"
	"github.com/martinsb/pantrylist/internal/dbx"
	"github.com/martinsb/pantrylist/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, list *models.ShoppingList) (*models.ShoppingList, error) {
	query :=
		`INSERT INTO shopping_lists (id, household_id, name, created_at)
		 VALUES ($1, $2, $3, $4)
		 `
	_, err := r.db.ExecContext(ctx, query, list.ID, list.HouseholdID, list.Name, list.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func scanList(scan func(dest ...any) error) (*models.ShoppingList, error) {
	list := &models.ShoppingList{}
	var completedAt sql.NullTime
	err := scan(&list.ID, &list.HouseholdID, &list.Name, &list.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		list.CompletedAt = &t
	}
	return list, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ShoppingList, error) {
	query :=
		`SELECT id, household_id, name, created_at, completed_at
		 FROM shopping_lists
		 WHERE id = $1
		 `
	list, err := scanList(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) ListByHousehold(ctx context.Context, householdID string) ([]*models.ShoppingList, error) {
	query :=
		`SELECT id, household_id, name, created_at, completed_at
		 FROM shopping_lists
		 WHERE household_id = $1
		 ORDER BY created_at DESC
		 `
	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ShoppingList
	for rows.Next() {
		list, err := scanList(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id string, name string) error {
	query :=
		`UPDATE shopping_lists SET name = $2
		 WHERE id = $1
		 `
	return r.execExpectingRow(ctx, query, id, name)
}

// SetCompleted marks the list done at the given time, or reopens it when at is nil.
func (r *PostgresRepository) SetCompleted(ctx context.Context, id string, at *time.Time) error {
	query :=
		`UPDATE shopping_lists SET completed_at = $2
		 WHERE id = $1
		 `
	return r.execExpectingRow(ctx, query, id, at)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM shopping_lists
		 WHERE id = $1
		 `
	return r.execExpectingRow(ctx, query, id)
}

func (r *PostgresRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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
