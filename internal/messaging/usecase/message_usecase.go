// Package usecase implements business logic orchestration for message relay.
package usecase

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
	messagingDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/domain"
	appvalidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// messageUseCase implements MessageUseCase on top of the Zulip client.
type messageUseCase struct {
	zulipClient ZulipClient
}

// Send relays a message into the sending client's bound stream.
// The relay is two-phase when an attachment is present: upload first, then
// send with the upload referenced from the content. A failed upload means no
// message is sent at all.
func (m *messageUseCase) Send(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.SendMessageInput,
) (*messagingDomain.SendMessageOutput, error) {
	if !client.CanSend() {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "admin client cannot send messages")
	}

	if err := validation.Validate(input.Topic, appvalidation.TopicName); err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}
	if strings.TrimSpace(input.Content) == "" && input.Attachment == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "message requires content or an attachment")
	}

	content := input.Content

	// Phase one: upload the attachment and reference it from the content
	if input.Attachment != nil {
		uri, err := m.zulipClient.UploadFile(ctx, input.Attachment.Filename, input.Attachment.Content)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrAttachmentUpload, err.Error())
		}
		content = fmt.Sprintf("%s\n[](%s)", content, uri)
	}

	// Phase two: send into the client's stream, never a caller-chosen one
	messageID, err := m.zulipClient.SendMessage(ctx, client.Stream, input.Topic, content)
	if err != nil {
		return nil, err
	}

	return &messagingDomain.SendMessageOutput{MessageID: messageID}, nil
}

// Update edits the content and/or topic of a previously relayed message.
func (m *messageUseCase) Update(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.UpdateMessageInput,
) error {
	if !client.CanSend() {
		return apperrors.Wrap(apperrors.ErrForbidden, "admin client cannot edit messages")
	}

	if input.MessageID <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "message_id must be positive")
	}
	if strings.TrimSpace(input.Content) == "" && strings.TrimSpace(input.Topic) == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "update requires content or topic")
	}
	if input.Topic != "" {
		if err := validation.Validate(input.Topic, appvalidation.TopicName); err != nil {
			return appvalidation.WrapValidationError(err)
		}
	}
	if err := input.PropagateMode.Validate(); err != nil {
		return err
	}

	return m.zulipClient.UpdateMessage(
		ctx,
		input.MessageID,
		input.Content,
		input.Topic,
		string(input.PropagateMode),
	)
}

// Upload stores a file upstream without sending a message. The returned path
// can be referenced from later message content.
func (m *messageUseCase) Upload(
	ctx context.Context,
	client *authDomain.Client,
	attachment *messagingDomain.Attachment,
) (string, error) {
	if !client.CanSend() {
		return "", apperrors.Wrap(apperrors.ErrForbidden, "admin client cannot upload files")
	}

	if attachment == nil || strings.TrimSpace(attachment.Filename) == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "upload requires a named file")
	}

	uri, err := m.zulipClient.UploadFile(ctx, attachment.Filename, attachment.Content)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAttachmentUpload, err.Error())
	}

	return uri, nil
}

// GetTopics lists the recent topics of the client's bound stream.
func (m *messageUseCase) GetTopics(
	ctx context.Context,
	client *authDomain.Client,
) ([]zulip.Topic, error) {
	if !client.CanSend() {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "admin client has no bound stream")
	}

	streamID, err := m.zulipClient.GetStreamID(ctx, client.Stream)
	if err != nil {
		return nil, err
	}

	return m.zulipClient.GetStreamTopics(ctx, streamID)
}

// NewMessageUseCase creates a new MessageUseCase with the provided dependencies.
func NewMessageUseCase(zulipClient ZulipClient) MessageUseCase {
	return &messageUseCase{
		zulipClient: zulipClient,
	}
}
