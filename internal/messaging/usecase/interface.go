// Package usecase defines business logic interfaces for message relay operations.
package usecase

import (
	"context"
	"io"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	messagingDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// ZulipClient defines the upstream operations the relay depends on.
// Implementations authenticate as the proxy's bot identity; caller credentials
// never reach the upstream.
type ZulipClient interface {
	// SendMessage posts a message to a stream topic and returns the message ID.
	SendMessage(ctx context.Context, stream, topic, content string) (int64, error)

	// UpdateMessage edits the content and/or topic of an existing message.
	UpdateMessage(ctx context.Context, messageID int64, content, topic, propagateMode string) error

	// UploadFile uploads a file and returns the server-side path for referencing
	// it from message content.
	UploadFile(ctx context.Context, filename string, file io.Reader) (string, error)

	// GetStreamID resolves a stream name to its numeric ID.
	GetStreamID(ctx context.Context, stream string) (int64, error)

	// GetStreamTopics lists the recent topics of a stream.
	GetStreamTopics(ctx context.Context, streamID int64) ([]zulip.Topic, error)
}

// MessageUseCase defines business logic operations for relaying messages.
// Every operation requires a regular client; the destination stream is always
// the client's bound stream.
type MessageUseCase interface {
	// Send relays a message into the client's stream. If the input carries an
	// attachment it is uploaded first and referenced from the message content;
	// an upload failure aborts the operation before any message is sent.
	Send(
		ctx context.Context,
		client *authDomain.Client,
		input *messagingDomain.SendMessageInput,
	) (*messagingDomain.SendMessageOutput, error)

	// Update edits the content and/or topic of a previously relayed message.
	Update(ctx context.Context, client *authDomain.Client, input *messagingDomain.UpdateMessageInput) error

	// Upload stores a file upstream without sending a message and returns the
	// server-side path for referencing it from later messages.
	Upload(ctx context.Context, client *authDomain.Client, attachment *messagingDomain.Attachment) (string, error)

	// GetTopics lists the recent topics of the client's stream.
	GetTopics(ctx context.Context, client *authDomain.Client) ([]zulip.Topic, error)
}
