// Package usecase defines business logic interfaces for client authentication
// and provisioning operations.
package usecase

import (
	"context"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
)

// ClientRepository defines persistence operations for client records.
// Implementations must guarantee that Insert is durable before returning
// success and that concurrent inserts cannot interleave.
type ClientRepository interface {
	// Get retrieves a client by its token. Returns ErrClientNotFound if no
	// record exists for the token.
	Get(ctx context.Context, token string) (*authDomain.Client, error)

	// Insert stores a new client. Returns ErrTokenCollision if the token
	// already exists in the registry.
	Insert(ctx context.Context, client *authDomain.Client) error

	// List retrieves all client records ordered by creation time.
	List(ctx context.Context) ([]*authDomain.Client, error)
}

// ClientUseCase defines business logic operations for client authentication
// and provisioning.
type ClientUseCase interface {
	// Authorize resolves a bearer token to its client record.
	// Returns ErrUnauthorized if the token is empty or unknown. Authorization
	// deliberately does not distinguish "unknown token" in its error so the
	// response leaks nothing about which tokens exist.
	Authorize(ctx context.Context, token string) (*authDomain.Client, error)

	// Create provisions a new regular client bound to a proposal and stream.
	// The token is generated server-side; on the (astronomically unlikely)
	// event of a token collision the generation is retried a bounded number of
	// times before failing with ErrProvisioningExhausted.
	//
	// Security Note: the returned token is shown exactly once and is never
	// retrievable afterwards. It must be transmitted securely and never logged.
	Create(
		ctx context.Context,
		createClientInput *authDomain.CreateClientInput,
	) (*authDomain.CreateClientOutput, error)

	// List retrieves all client records. Tokens are included in the returned
	// records; presentation layers must not expose them.
	List(ctx context.Context) ([]*authDomain.Client, error)
}
