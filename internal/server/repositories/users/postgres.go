// Package users provides a PostgreSQL-backed repository for user accounts.
package users

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

// PostgresRepository implements user persistence over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new user. The email unique index is case-insensitive;
// a conflict is reported as common.ErrorDuplicate.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, household_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.HouseholdID, string(user.Role), user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var householdID sql.NullString
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &householdID, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.HouseholdID = householdID.String
	user.Role = models.HouseholdRole(role)
	return user, nil
}

// GetByEmail looks a user up by email, case-insensitively.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, first_name, last_name, household_id, role, created_at
		 FROM users
		 WHERE lower(email) = lower($1)
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, first_name, last_name, household_id, role, created_at
		 FROM users
		 WHERE id = $1
		 `
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// SetHousehold assigns the user to a household with the given role.
func (r *PostgresRepository) SetHousehold(ctx context.Context, userID string, householdID string, role models.HouseholdRole) error {
	query :=
		`UPDATE users SET household_id = $2, role = $3
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, userID, householdID, string(role))
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

// ClearHousehold detaches the user from their household and resets the role.
func (r *PostgresRepository) ClearHousehold(ctx context.Context, userID string) error {
	query :=
		`UPDATE users SET household_id = NULL, role = ''
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, userID)
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

// ListByHousehold returns every member of the household ordered by creation time.
func (r *PostgresRepository) ListByHousehold(ctx context.Context, householdID string) ([]*models.User, error) {
	query :=
		`SELECT id, email, password_hash, first_name, last_name, household_id, role, created_at
		 FROM users
		 WHERE household_id = $1
		 ORDER BY created_at
		 `
	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		var hid sql.NullString
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.LastName, &hid, &role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		user.HouseholdID = hid.String
		user.Role = models.HouseholdRole(role)
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
