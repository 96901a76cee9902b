// Package domain defines the message relay model of the proxy.
//
// Messages are always posted into the stream bound to the sending client; the
// caller chooses the topic and content but never the destination stream.
package domain

import (
	"io"

	"github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// PropagateMode controls which messages a topic edit applies to.
type PropagateMode string

const (
	// ChangeOne edits only the targeted message.
	ChangeOne PropagateMode = "change_one"

	// ChangeAll edits every message in the topic.
	ChangeAll PropagateMode = "change_all"

	// ChangeLater edits the targeted message and all later ones.
	ChangeLater PropagateMode = "change_later"
)

// Validate checks that the propagate mode is one of the accepted values.
func (p PropagateMode) Validate() error {
	switch p {
	case ChangeOne, ChangeAll, ChangeLater:
		return nil
	default:
		return errors.Wrap(errors.ErrInvalidInput, "propagate_mode must be one of change_one, change_all, change_later")
	}
}

// Attachment is a file to upload and reference from the message content.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// SendMessageInput contains the parameters for relaying a message.
// The destination stream is taken from the sending client, never from here.
type SendMessageInput struct {
	Topic      string
	Content    string
	Attachment *Attachment // optional
}

// SendMessageOutput contains the result of a relayed message.
type SendMessageOutput struct {
	MessageID int64
}

// UpdateMessageInput contains the parameters for editing a sent message.
// At least one of Content or Topic must be set.
type UpdateMessageInput struct {
	MessageID     int64
	Content       string
	Topic         string
	PropagateMode PropagateMode
}
