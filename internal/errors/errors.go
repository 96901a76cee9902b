// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate token).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated client doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrProvisioningExhausted indicates token generation kept colliding until the
	// retry budget ran out. Fatal to the provisioning request, not to the process.
	ErrProvisioningExhausted = errors.New("provisioning exhausted")

	// ErrStoreCorrupt indicates the persisted client document exists but is not
	// well-formed. Fatal at process start; the document must be left untouched.
	ErrStoreCorrupt = errors.New("store corrupt")

	// ErrUpstreamUnavailable indicates the Zulip API could not be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamRejected indicates the Zulip API refused the request.
	ErrUpstreamRejected = errors.New("upstream rejected")

	// ErrUpstreamTimeout indicates the Zulip API call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")

	// ErrAttachmentUpload indicates the attachment upload failed. The message
	// send is never attempted after this error, so no partial post can occur.
	ErrAttachmentUpload = errors.New("attachment upload failed")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
