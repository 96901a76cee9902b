// Package domain defines the client authorization model of the proxy.
//
// A client is the unit of authorization: an opaque server-generated token bound
// to a role. Regular clients carry a proposal number and a single Zulip stream
// they may post into; the admin client carries no posting scope and exists only
// to provision new regular clients.
package domain

import (
	"time"

	"github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// Role classifies what a client is allowed to do.
type Role string

const (
	// RoleAdmin allows provisioning new regular clients. Admin clients carry
	// no posting scope and can never send messages.
	RoleAdmin Role = "admin"

	// RoleRegular allows posting messages into the client's bound stream.
	// Regular clients can never provision other clients.
	RoleRegular Role = "regular"
)

// Client represents an authorization record binding a token to a role and,
// for regular clients, a tenant scope. The token is the primary key and is
// never derived from user input. Role, ProposalNo and Stream are immutable
// after creation.
type Client struct {
	Token      string    // Opaque bearer secret, unique across all records
	Role       Role      // admin or regular
	ProposalNo int64     // Owning proposal; set only for regular clients
	Stream     string    // Bound Zulip stream; set only for regular clients
	CreatedAt  time.Time
}

// Validate enforces the role-attribute coupling invariant: admin records never
// carry a proposal number or stream, regular records always carry both.
func (c *Client) Validate() error {
	if c.Token == "" {
		return errors.Wrap(errors.ErrInvalidInput, "token must not be empty")
	}

	switch c.Role {
	case RoleAdmin:
		if c.ProposalNo != 0 || c.Stream != "" {
			return errors.Wrap(errors.ErrInvalidInput, "admin client must not carry proposal_no or stream")
		}
	case RoleRegular:
		if c.ProposalNo <= 0 {
			return errors.Wrap(errors.ErrInvalidInput, "regular client requires a positive proposal_no")
		}
		if c.Stream == "" {
			return errors.Wrap(errors.ErrInvalidInput, "regular client requires a stream")
		}
	default:
		return errors.Wrap(errors.ErrInvalidInput, "unknown role")
	}

	return nil
}

// CanProvision reports whether the client may create new clients.
func (c *Client) CanProvision() bool {
	return c.Role == RoleAdmin
}

// CanSend reports whether the client may relay messages.
func (c *Client) CanSend() bool {
	return c.Role == RoleRegular
}

// CreateClientInput contains the parameters for provisioning a new regular client.
// The token is always generated server-side and cannot be specified by the caller.
type CreateClientInput struct {
	ProposalNo int64  // Owning proposal number, must be positive
	Stream     string // Zulip stream the new client may post into
}

// CreateClientOutput contains the result of provisioning a new client.
// SECURITY: the token is returned exactly once and is never retrievable again.
type CreateClientOutput struct {
	Token  string // Plain bearer token (transmit securely, never log)
	Client *Client
}
