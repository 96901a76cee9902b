package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// tokenService implements TokenService using crypto/rand.
type tokenService struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
func (t *tokenService) GenerateToken() (string, error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}

	// Encode to base64 URL-safe string for text representation
	return base64.URLEncoding.EncodeToString(randomBytes), nil
}

// NewTokenService creates a new TokenService instance.
func NewTokenService() TokenService {
	return &tokenService{}
}
