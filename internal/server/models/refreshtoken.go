package models

import "time"

// RefreshToken is one issued refresh credential. Only the SHA-256 hash of the
// secret is stored; the plaintext is returned to the client once and never
// persisted. Rows are never deleted: a revoked row is kept for audit and for
// reuse detection.
//
// A row is in exactly one of three states:
//
//   - active:  RevokedAt nil and not expired
//   - rotated: RevokedAt set and ReplacedByTokenHash set (consumed by refresh)
//   - revoked: RevokedAt set and ReplacedByTokenHash empty (logout or abuse)
//
// Revocation is terminal; the row is never mutated again.
type RefreshToken struct {
	ID                  int64
	UserID              string
	TokenHash           string
	CreatedAt           time.Time
	CreatedByIP         string
	ExpiresAt           time.Time
	RevokedAt           *time.Time
	RevokedByIP         string
	ReplacedByTokenHash string
}

// IsExpired reports whether the token's validity window has passed at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsActive reports whether the token can still be exchanged at now.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && !t.IsExpired(now)
}
