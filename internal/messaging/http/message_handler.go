// Package http provides HTTP handlers for message relay operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/httputil"
	messagingDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/http/dto"
	messagingUseCase "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/usecase"
	customValidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
)

// maxAttachmentSize caps the in-memory multipart parse at 32 MiB, matching
// what a Zulip server accepts by default.
const maxAttachmentSize = 32 << 20

// MessageHandler handles HTTP requests for relaying and editing messages.
type MessageHandler struct {
	messageUseCase messagingUseCase.MessageUseCase
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler with required dependencies.
func NewMessageHandler(
	messageUseCase messagingUseCase.MessageUseCase,
	logger *slog.Logger,
) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

// SendHandler relays a message into the caller's bound stream.
// POST /api/v1/messages - Requires a regular client.
//
// The request is multipart/form-data with fields "topic" and "content" plus
// an optional "attachment" file. The destination stream never comes from the
// request; it is the authenticated client's stream.
func (h *MessageHandler) SendHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := c.Request.ParseMultipartForm(maxAttachmentSize); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// The topic may arrive as a form field or, for clients that stream the
	// body, as a query parameter.
	topic := c.PostForm("topic")
	if topic == "" {
		topic = c.Query("topic")
	}

	input := &messagingDomain.SendMessageInput{
		Topic:   topic,
		Content: c.PostForm("content"),
	}

	// Optional attachment
	fileHeader, err := c.FormFile("attachment")
	if err == nil && fileHeader != nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			httputil.HandleBadRequestGin(c, openErr, h.logger)
			return
		}
		defer file.Close()

		input.Attachment = &messagingDomain.Attachment{
			Filename: fileHeader.Filename,
			Content:  file,
		}
	} else if err != nil && err != http.ErrMissingFile {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.messageUseCase.Send(c.Request.Context(), client, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SendMessageResponse{MessageID: output.MessageID})
}

// UpdateHandler edits the content and/or topic of a previously sent message.
// PATCH /api/v1/messages/:id - Requires a regular client.
func (h *MessageHandler) UpdateHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || messageID <= 0 {
		httputil.HandleValidationErrorGin(c,
			apperrors.New("invalid message ID: must be a positive integer"),
			h.logger)
		return
	}

	var req dto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &messagingDomain.UpdateMessageInput{
		MessageID:     messageID,
		Content:       req.Content,
		Topic:         req.Topic,
		PropagateMode: messagingDomain.PropagateMode(req.PropagateMode),
	}

	if err := h.messageUseCase.Update(c.Request.Context(), client, input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "success"})
}

// UploadHandler stores a file upstream without sending a message.
// POST /api/v1/upload - Requires a regular client.
//
// The request is multipart/form-data with a single "file" field. The response
// carries the server-side path, which callers can embed in later messages.
func (h *MessageHandler) UploadHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer file.Close()

	attachment := &messagingDomain.Attachment{
		Filename: fileHeader.Filename,
		Content:  file,
	}

	uri, err := h.messageUseCase.Upload(c.Request.Context(), client, attachment)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UploadFileResponse{URI: uri})
}

// TopicsHandler lists the recent topics of the caller's bound stream.
// GET /api/v1/topics - Requires a regular client.
func (h *MessageHandler) TopicsHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok || client == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	topics, err := h.messageUseCase.GetTopics(c.Request.Context(), client)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTopicsToListResponse(topics))
}
