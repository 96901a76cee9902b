// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
)

// UpdateMessageRequest contains the parameters for editing a sent message.
// At least one of content or topic must be set.
type UpdateMessageRequest struct {
	Content       string `json:"content"`
	Topic         string `json:"topic"`
	PropagateMode string `json:"propagate_mode"`
}

// Validate checks if the update message request is valid.
func (r *UpdateMessageRequest) Validate() error {
	if r.Content == "" && r.Topic == "" {
		return validation.NewError("validation_update_empty", "either content or topic must be provided")
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Topic,
			validation.When(r.Topic != "", customValidation.TopicName),
		),
		validation.Field(&r.PropagateMode,
			validation.Required,
			validation.In("change_one", "change_all", "change_later"),
		),
	)
}
