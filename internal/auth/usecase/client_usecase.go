// Package usecase implements business logic orchestration for client
// authentication and provisioning.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	authService "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/service"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	appvalidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
)

// maxTokenAttempts bounds token regeneration on collision. With 256-bit random
// tokens a single collision is already implausible; repeated collisions point
// at a broken random source, so give up instead of looping.
const maxTokenAttempts = 5

// clientUseCase implements ClientUseCase on top of the client registry.
type clientUseCase struct {
	clientRepo   ClientRepository
	tokenService authService.TokenService
}

// Authorize resolves a bearer token to its client record.
// Any failure to resolve maps to ErrUnauthorized.
func (c *clientUseCase) Authorize(ctx context.Context, token string) (*authDomain.Client, error) {
	if token == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "missing token")
	}

	client, err := c.clientRepo.Get(ctx, token)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrClientNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unknown token")
		}
		return nil, err
	}

	return client, nil
}

// Create provisions and persists a new regular client with a random token.
// The token is only returned once; afterwards it exists solely as the registry key.
func (c *clientUseCase) Create(
	ctx context.Context,
	createClientInput *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	// Validate provisioning parameters
	if err := validation.Validate(createClientInput.Stream, appvalidation.StreamName); err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}
	if createClientInput.ProposalNo <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "proposal_no must be positive")
	}

	// Generate a token and insert; regenerate on collision up to the attempt bound
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := c.tokenService.GenerateToken()
		if err != nil {
			return nil, err
		}

		client := &authDomain.Client{
			Token:      token,
			Role:       authDomain.RoleRegular,
			ProposalNo: createClientInput.ProposalNo,
			Stream:     createClientInput.Stream,
			CreatedAt:  time.Now().UTC(),
		}

		err = c.clientRepo.Insert(ctx, client)
		if err == nil {
			return &authDomain.CreateClientOutput{
				Token:  token,
				Client: client,
			}, nil
		}
		if apperrors.Is(err, authDomain.ErrTokenCollision) {
			continue
		}
		return nil, err
	}

	return nil, apperrors.Wrap(apperrors.ErrProvisioningExhausted, "token generation attempts exhausted")
}

// List retrieves all client records from the registry.
func (c *clientUseCase) List(ctx context.Context) ([]*authDomain.Client, error) {
	return c.clientRepo.List(ctx)
}

// NewClientUseCase creates a new ClientUseCase with the provided dependencies.
func NewClientUseCase(
	clientRepo ClientRepository,
	tokenService authService.TokenService,
) ClientUseCase {
	return &clientUseCase{
		clientRepo:   clientRepo,
		tokenService: tokenService,
	}
}
