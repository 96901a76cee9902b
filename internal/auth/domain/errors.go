package domain

import (
	"github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrClientNotFound indicates no client record exists for the presented token.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrTokenCollision indicates a generated token already exists in the
	// registry. Internal; handled by regenerating the token.
	ErrTokenCollision = errors.Wrap(errors.ErrConflict, "token collision")
)
