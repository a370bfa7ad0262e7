// Package auth implements the access-token codec and the refresh-token secret
// helpers. Access tokens are HS512-signed JWTs; refresh tokens are opaque
// random strings stored server-side only as SHA-256 hashes.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/martinsb/pantrylist/internal/common"
)

// Claims carried by an access token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenCodec issues and inspects signed access tokens. The zero value is not
// usable; construct with NewTokenCodec.
type TokenCodec struct {
	secret   string
	issuer   string
	audience string
	validity time.Duration
	now      func() time.Time
}

// NewTokenCodec builds a codec from the configured signing settings. The
// settings are checked at issue time, not here, so a misconfigured server
// fails per-call with ConfigurationError instead of at construction.
func NewTokenCodec(secret, issuer, audience string, validity time.Duration, now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		validity: validity,
		now:      now,
	}
}

// Issue signs a short-lived access token for the given user. Returns the
// compact token and its expiry.
func (c *TokenCodec) Issue(userID, email string) (string, time.Time, error) {
	if c.secret == "" || c.issuer == "" || c.audience == "" {
		return "", time.Time{}, common.E(common.CodeConfigurationError, "Missing or invalid token signing configuration.")
	}

	now := c.now().UTC()
	expiresAt := now.Add(c.validity)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(c.secret))
	if err != nil {
		return "", time.Time{}, common.Wrap(common.CodeTokenGenerationFailed, "Token generation failed.", err)
	}

	return token, expiresAt, nil
}

// ValidateExpired verifies the token's signature and algorithm but not its
// expiry. It exists for the logout-by-access-token flow, where a just-expired
// token must still identify its owner. Returns nil on any structural or
// signature failure, including a signing algorithm other than HS512 (the
// algorithm-substitution defense).
func (c *TokenCodec) ValidateExpired(tokenString string) *Claims {
	if c.secret == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(c.secret), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil
	}

	return claims
}

// Validate verifies the token fully, expiry included, and returns its claims.
// Used by the HTTP middleware guarding authenticated routes.
func (c *TokenCodec) Validate(tokenString string) *Claims {
	if c.secret == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(c.secret), nil
	}, jwt.WithIssuer(c.issuer), jwt.WithAudience(c.audience), jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil || !token.Valid {
		return nil
	}

	return claims
}
