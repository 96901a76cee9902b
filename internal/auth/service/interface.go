// Package service provides technical services for client authentication.
//
// This package implements reusable services for bearer token generation using
// cryptographically secure random sources.
package service

// TokenService defines operations for bearer token generation.
// Implementations must use cryptographically secure random generation.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// The token is the registry lookup key and is stored as generated; it is
	// never derived from caller input.
	//
	// The token should be treated as sensitive data and only displayed once
	// to the caller during client provisioning.
	GenerateToken() (string, error)
}
