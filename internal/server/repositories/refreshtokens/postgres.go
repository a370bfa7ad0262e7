// Package refreshtokens provides a PostgreSQL-backed repository for refresh
// token rows. Rows are never deleted; revocation and rotation only set
// revoked_at, revoked_by_ip and replaced_by_token_hash, so the full chain of
// a session stays auditable.
package refreshtokens

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

// PostgresRepository implements refresh token persistence over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token row and fills in its assigned id.
func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	query :=
		`INSERT INTO refresh_tokens (user_id, token_hash, created_at, created_by_ip, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `
	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.TokenHash, token.CreatedAt, token.CreatedByIP, token.ExpiresAt).
		Scan(&token.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func scanToken(scan func(dest ...any) error) (*models.RefreshToken, error) {
	token := &models.RefreshToken{}
	var revokedAt sql.NullTime
	var revokedByIP, replacedBy sql.NullString
	err := scan(&token.ID, &token.UserID, &token.TokenHash, &token.CreatedAt,
		&token.CreatedByIP, &token.ExpiresAt, &revokedAt, &revokedByIP, &replacedBy)
	if err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		token.RevokedAt = &t
	}
	token.RevokedByIP = revokedByIP.String
	token.ReplacedByTokenHash = replacedBy.String
	return token, nil
}

// FindByHash returns the token row with the given hash, or common.ErrorNotFound.
func (r *PostgresRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query :=
		`SELECT id, user_id, token_hash, created_at, created_by_ip, expires_at, revoked_at, revoked_by_ip, replaced_by_token_hash
		 FROM refresh_tokens
		 WHERE token_hash = $1
		 `
	token, err := scanToken(r.db.QueryRowContext(ctx, query, tokenHash).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// ListActiveByUser returns the user's tokens that are neither revoked nor
// expired as of now, newest first.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*models.RefreshToken, error) {
	query :=
		`SELECT id, user_id, token_hash, created_at, created_by_ip, expires_at, revoked_at, revoked_by_ip, replaced_by_token_hash
		 FROM refresh_tokens
		 WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
		 ORDER BY created_at DESC
		 `
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RefreshToken
	for rows.Next() {
		token, err := scanToken(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Revoke marks a single token revoked. The revoked_at IS NULL guard makes the
// update a compare-and-swap: when two rotations race on the same token, only
// one observes an affected row, and the loser must treat the token as reused.
// replacedByHash is stored only for rotations; pass "" for plain revocation.
func (r *PostgresRepository) Revoke(ctx context.Context, tokenHash string, at time.Time, ip string, replacedByHash string) (bool, error) {
	query :=
		`UPDATE refresh_tokens
		 SET revoked_at = $2, revoked_by_ip = $3, replaced_by_token_hash = NULLIF($4, '')
		 WHERE token_hash = $1 AND revoked_at IS NULL
		 `
	res, err := r.db.ExecContext(ctx, query, tokenHash, at, ip, replacedByHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}

// RevokeAllActiveByUser revokes every active token the user holds and returns
// how many rows were touched.
func (r *PostgresRepository) RevokeAllActiveByUser(ctx context.Context, userID string, at time.Time, ip string) (int64, error) {
	query :=
		`UPDATE refresh_tokens
		 SET revoked_at = $2, revoked_by_ip = $3
		 WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > $2
		 `
	res, err := r.db.ExecContext(ctx, query, userID, at, ip)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
