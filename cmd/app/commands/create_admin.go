package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	authService "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/service"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// maxAdminTokenAttempts bounds token regeneration on collision.
const maxAdminTokenAttempts = 5

// RunCreateAdmin provisions an admin client directly against the registry.
// Admin clients cannot be created through the API; bootstrapping the first
// admin happens here, on the host holding the client document.
//
// The token is printed exactly once and is never retrievable again.
func RunCreateAdmin(
	ctx context.Context,
	clientRepo authUseCase.ClientRepository,
	tokenService authService.TokenService,
	logger *slog.Logger,
	io IOTuple,
	format string,
) error {
	logger.Info("creating admin client")

	var client *authDomain.Client

	for attempt := 0; attempt < maxAdminTokenAttempts; attempt++ {
		token, err := tokenService.GenerateToken()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		candidate := &authDomain.Client{
			Token:     token,
			Role:      authDomain.RoleAdmin,
			CreatedAt: time.Now().UTC(),
		}

		err = clientRepo.Insert(ctx, candidate)
		if err == nil {
			client = candidate
			break
		}
		if apperrors.Is(err, authDomain.ErrTokenCollision) {
			continue
		}
		return fmt.Errorf("failed to persist admin client: %w", err)
	}

	if client == nil {
		return apperrors.Wrap(apperrors.ErrProvisioningExhausted, "token generation attempts exhausted")
	}

	if format == "json" {
		outputAdminJSON(client, io.Writer)
	} else {
		outputAdminText(client, io.Writer)
	}

	logger.Info("admin client created successfully")

	return nil
}

// outputAdminText outputs the result in human-readable text format.
func outputAdminText(client *authDomain.Client, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nAdmin client created successfully!")
	_, _ = fmt.Fprintf(writer, "Token: %s\n", client.Token)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
}

// outputAdminJSON outputs the result in JSON format for machine consumption.
func outputAdminJSON(client *authDomain.Client, writer io.Writer) {
	result := map[string]string{
		"token": client.Token,
		"role":  string(client.Role),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
