// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

var (
	// streamNameRegex rejects control characters, which Zulip refuses in stream names.
	streamNameRegex = regexp.MustCompile(`^[^\x00-\x1f]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
// Built on validation.By so it runs on empty strings too; the library's
// string rules skip empty values and would silently pass "".
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "must not be blank")
	}
	return nil
})

// StreamName validates that a string is a plausible Zulip stream name:
// non-blank, at most 60 characters, no control characters.
// Runs on empty strings, see NotBlank.
var StreamName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_stream_name_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" || len(s) > 60 || !streamNameRegex.MatchString(s) {
		return validation.NewError(
			"validation_stream_name",
			"must be a valid stream name (1-60 characters, no control characters)",
		)
	}
	return nil
})

// TopicName validates that a string is a plausible Zulip topic name:
// non-blank and at most 60 characters.
// Runs on empty strings, see NotBlank.
var TopicName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_topic_name_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" || len(s) > 60 {
		return validation.NewError("validation_topic_name", "must be a valid topic name (1-60 characters)")
	}
	return nil
})
