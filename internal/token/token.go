package token

// Package token generates share identifiers and password digests.
// The share id is the only authorization token for unprotected files,
// so it must come from a CSPRNG and carry enough entropy to be unguessable.

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// GenerateID returns a fixed-length, hex-encoded, cryptographically random token.
// length is the number of hex characters and must be even and positive.
func GenerateID(length int) (string, error) {
	if length <= 0 || length%2 != 0 {
		return "", fmt.Errorf("token length must be a positive even number, got %d", length)
	}
	buf := make([]byte, length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword returns the hex-encoded SHA-256 digest of the shared secret.
// An empty secret returns the empty string, the "no password" sentinel, which
// is distinguishable from any real digest.
func HashPassword(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the plaintext secret matches the stored digest.
// Comparison is constant-time. An empty digest never matches; callers should
// treat it as "no password required" before calling this.
func VerifyPassword(digest, secret string) bool {
	if digest == "" {
		return false
	}
	candidate := HashPassword(secret)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(candidate)) == 1
}
