// Package shoppingitems provides a PostgreSQL-backed repository for items on
// shopping lists.
package shoppingitems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	query :=
		`INSERT INTO shopping_items (id, list_id, name, quantity, notes, checked, store_tag_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		 `
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.ListID, item.Name, item.Quantity, item.Notes, item.Checked,
		item.StoreTagID, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func scanItem(scan func(dest ...any) error) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	var tagID sql.NullString
	var updatedAt sql.NullTime
	err := scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Notes,
		&item.Checked, &tagID, &item.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.StoreTagID = tagID.String
	if updatedAt.Valid {
		t := updatedAt.Time
		item.UpdatedAt = &t
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ShoppingItem, error) {
	query :=
		`SELECT id, list_id, name, quantity, notes, checked, store_tag_id, created_at, updated_at
		 FROM shopping_items
		 WHERE id = $1
		 `
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByList(ctx context.Context, listID string) ([]*models.ShoppingItem, error) {
	query :=
		`SELECT id, list_id, name, quantity, notes, checked, store_tag_id, created_at, updated_at
		 FROM shopping_items
		 WHERE list_id = $1
		 ORDER BY created_at
		 `
	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of the item row.
func (r *PostgresRepository) Update(ctx context.Context, item *models.ShoppingItem) error {
	query :=
		`UPDATE shopping_items
		 SET name = $2, quantity = $3, notes = $4, checked = $5, store_tag_id = NULLIF($6, ''), updated_at = $7
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Quantity, item.Notes, item.Checked, item.StoreTagID, item.UpdatedAt)
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM shopping_items
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id)
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

// DeleteChecked removes all checked items from a list and returns the count.
func (r *PostgresRepository) DeleteChecked(ctx context.Context, listID string) (int64, error) {
	query :=
		`DELETE FROM shopping_items
		 WHERE list_id = $1 AND checked
		 `
	res, err := r.db.ExecContext(ctx, query, listID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}

// ClearTag detaches every item that references the given store tag. Used
// before a tag is deleted.
func (r *PostgresRepository) ClearTag(ctx context.Context, storeTagID string) error {
	query :=
		`UPDATE shopping_items SET store_tag_id = NULL
		 WHERE store_tag_id = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, storeTagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
