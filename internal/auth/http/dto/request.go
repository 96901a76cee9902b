// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/RobertRosca/zulip-write-only-proxy/internal/validation"
)

// CreateClientRequest contains the parameters for provisioning a new regular client.
// The token is never part of the request; it is always generated server-side.
type CreateClientRequest struct {
	ProposalNo int64  `json:"proposal_no"`
	Stream     string `json:"stream"`
}

// Validate checks if the create client request is valid.
func (r *CreateClientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProposalNo,
			validation.Required,
			validation.Min(1),
		),
		validation.Field(&r.Stream,
			validation.Required,
			customValidation.StreamName,
		),
	)
}
