// Package storetags provides a PostgreSQL-backed repository for store tags.
package storetags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a tag. Tag names are unique per household; a conflict is
// reported as common.ErrorDuplicate.
func (r *PostgresRepository) Create(ctx context.Context, tag *models.StoreTag) (*models.StoreTag, error) {
	query :=
		`INSERT INTO store_tags (id, household_id, name, description, color_hex, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `
	_, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.HouseholdID, tag.Name, tag.Description, tag.ColorHex, tag.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func scanTag(scan func(dest ...any) error) (*models.StoreTag, error) {
	tag := &models.StoreTag{}
	var updatedAt sql.NullTime
	err := scan(&tag.ID, &tag.HouseholdID, &tag.Name, &tag.Description,
		&tag.ColorHex, &tag.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		tag.UpdatedAt = &t
	}
	return tag, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.StoreTag, error) {
	query :=
		`SELECT id, household_id, name, description, color_hex, created_at, updated_at
		 FROM store_tags
		 WHERE id = $1
		 `
	tag, err := scanTag(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) ListByHousehold(ctx context.Context, householdID string) ([]*models.StoreTag, error) {
	query :=
		`SELECT id, household_id, name, description, color_hex, created_at, updated_at
		 FROM store_tags
		 WHERE household_id = $1
		 ORDER BY name
		 `
	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.StoreTag
	for rows.Next() {
		tag, err := scanTag(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, tag *models.StoreTag) error {
	query :=
		`UPDATE store_tags
		 SET name = $2, description = $3, color_hex = $4, updated_at = $5
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.Name, tag.Description, tag.ColorHex, tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorDuplicate
		}
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
		`DELETE FROM store_tags
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
