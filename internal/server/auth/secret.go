package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// RefreshTokenBytes is the entropy of a refresh-token secret.
const RefreshTokenBytes = 64

// RandomTokenURLSafe returns a cryptographically random, URL-safe string of
// byteLength random bytes, base64url-encoded without padding. This is the
// plaintext refresh token shown to the client exactly once.
func RandomTokenURLSafe(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hash of token as lowercase hex. The hash is
// the storage and lookup key for refresh tokens; the plaintext is never
// persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
