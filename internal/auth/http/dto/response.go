// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
)

// CreateClientResponse contains the result of provisioning a new client.
// SECURITY: The token is only returned once and must be saved securely.
type CreateClientResponse struct {
	Token      string `json:"token"` //nolint:gosec // returned once on creation
	ProposalNo int64  `json:"proposal_no"`
	Stream     string `json:"stream"`
}

// ClientResponse represents a client in API responses (excludes the token).
type ClientResponse struct {
	Role       string    `json:"role"`
	ProposalNo int64     `json:"proposal_no,omitempty"`
	Stream     string    `json:"stream,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MapClientToResponse converts a domain client to an API response.
// The token is deliberately absent; it is only ever shown at creation time.
func MapClientToResponse(client *authDomain.Client) ClientResponse {
	return ClientResponse{
		Role:       string(client.Role),
		ProposalNo: client.ProposalNo,
		Stream:     client.Stream,
		CreatedAt:  client.CreatedAt,
	}
}

// ListClientsResponse represents a list of clients in API responses.
type ListClientsResponse struct {
	Data []ClientResponse `json:"data"`
}

// MapClientsToListResponse converts a slice of domain clients to a list API response.
func MapClientsToListResponse(clients []*authDomain.Client) ListClientsResponse {
	clientResponses := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		clientResponses = append(clientResponses, MapClientToResponse(client))
	}
	return ListClientsResponse{
		Data: clientResponses,
	}
}
