package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Token format: ctk_{48 hex chars}
// Example: ctk_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d
const (
	TokenPrefix    = "ctk_"
	TokenSecretLen = 48 // hex encoded 24 bytes
)

var tokenFormatRegex = regexp.MustCompile(`^ctk_[a-f0-9]{48}$`)

// IssuedToken is a freshly generated session token.
type IssuedToken struct {
	Plaintext string // returned to the client once
	Digest    string // stored on the user record
}

// GenerateToken creates a new unguessable session token.
func GenerateToken() (*IssuedToken, error) {
	secret := make([]byte, TokenSecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	plaintext := TokenPrefix + hex.EncodeToString(secret)

	return &IssuedToken{
		Plaintext: plaintext,
		Digest:    HashToken(plaintext),
	}, nil
}

// ValidateTokenFormat checks if the token matches the issued format.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// HashToken returns the SHA-256 hex digest of a token.
// Tokens carry 192 bits of entropy so a fast hash is sufficient;
// the digest doubles as the session cache key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ExtractToken normalizes an Authorization header value.
// The raw token is accepted as-is; a "Bearer " prefix is stripped.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
