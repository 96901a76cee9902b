package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http/dto"
	authUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/usecase"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/httputil"
	customValidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
)

// ClientHandler handles HTTP requests for client provisioning and inspection.
type ClientHandler struct {
	clientUseCase authUseCase.ClientUseCase
	logger        *slog.Logger
}

// NewClientHandler creates a new client handler with required dependencies.
func NewClientHandler(
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
) *ClientHandler {
	return &ClientHandler{
		clientUseCase: clientUseCase,
		logger:        logger,
	}
}

// CreateHandler provisions a new regular client.
// POST /api/v1/clients - Requires an admin client.
// Returns 201 Created with the plain token; the token is never shown again.
func (h *ClientHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateClientRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Create input for use case
	input := &authDomain.CreateClientInput{
		ProposalNo: req.ProposalNo,
		Stream:     req.Stream,
	}

	// Call use case
	output, err := h.clientUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response with plain token
	response := dto.CreateClientResponse{
		Token:      output.Token,
		ProposalNo: output.Client.ProposalNo,
		Stream:     output.Client.Stream,
	}

	c.JSON(http.StatusCreated, response)
}

// ListHandler lists all provisioned clients without their tokens.
// GET /api/v1/clients - Requires an admin client.
func (h *ClientHandler) ListHandler(c *gin.Context) {
	clients, err := h.clientUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientsToListResponse(clients))
}

// MeHandler returns the authenticated client's own record without the token.
// GET /api/v1/me - Any authenticated client.
func (h *ClientHandler) MeHandler(c *gin.Context) {
	client, ok := GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientToResponse(client))
}
