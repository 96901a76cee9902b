package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/httputil"
)

// apiKeyHeader is the header carrying the client's bearer token.
const apiKeyHeader = "X-API-Key"

// AuthenticationMiddleware authenticates requests via the X-API-Key header.
//
// The middleware:
// 1. Extracts the token from the X-API-Key header
// 2. Resolves the token to a client via ClientUseCase.Authorize
// 3. Stores the authenticated client in the request context
// 4. Allows downstream handlers to access the client via GetClient()
//
// Error handling:
//   - Missing header or unknown token → 401 Unauthorized
//   - Registry failures → 500 Internal Server Error
//
// The 401 response is identical for missing and unknown tokens so the
// response leaks nothing about which tokens exist.
func AuthenticationMiddleware(
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(apiKeyHeader)

		client, err := clientUseCase.Authorize(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		// Store authenticated client in context
		ctx := WithClient(c.Request.Context(), client)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("role", string(client.Role)),
			slog.Int64("proposal_no", client.ProposalNo))

		c.Next()
	}
}

// RequireAdmin rejects requests whose authenticated client cannot provision.
// MUST be used after AuthenticationMiddleware. A valid but non-admin token
// gets 403, never 401; the two failures stay distinguishable.
func RequireAdmin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Error("authorization failed: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !client.CanProvision() {
			logger.Debug("authorization failed: admin capability required")
			httputil.HandleErrorGin(c,
				apperrors.Wrap(apperrors.ErrForbidden, "admin capability required"),
				logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRegular rejects requests whose authenticated client cannot send
// messages. MUST be used after AuthenticationMiddleware.
func RequireRegular(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok || client == nil {
			logger.Error("authorization failed: no authenticated client in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !client.CanSend() {
			logger.Debug("authorization failed: messaging capability required")
			httputil.HandleErrorGin(c,
				apperrors.Wrap(apperrors.ErrForbidden, "messaging capability required"),
				logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
