// Package households provides a PostgreSQL-backed repository for households.
package households

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

func (r *PostgresRepository) Create(ctx context.Context, household *models.Household) (*models.Household, error) {
	query :=
		`INSERT INTO households (id, name)
		 VALUES ($1, $2)
		 `
	if _, err := r.db.ExecContext(ctx, query, household.ID, household.Name); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return household, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Household, error) {
	query :=
		`SELECT id, name FROM households
		 WHERE id = $1
		 `
	household := &models.Household{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&household.ID, &household.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return household, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id string, name string) error {
	query :=
		`UPDATE households SET name = $2
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, name)
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
