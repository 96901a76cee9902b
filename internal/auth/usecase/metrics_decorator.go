package usecase

import (
	"context"
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
)

// clientUseCaseWithMetrics decorates ClientUseCase with metrics instrumentation.
type clientUseCaseWithMetrics struct {
	next    ClientUseCase
	metrics metrics.BusinessMetrics
}

// NewClientUseCaseWithMetrics wraps a ClientUseCase with metrics recording.
func NewClientUseCaseWithMetrics(useCase ClientUseCase, m metrics.BusinessMetrics) ClientUseCase {
	return &clientUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for token authorization operations.
func (c *clientUseCaseWithMetrics) Authorize(ctx context.Context, token string) (*authDomain.Client, error) {
	start := time.Now()
	client, err := c.next.Authorize(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_authorize", status)
	c.metrics.RecordDuration(ctx, "auth", "client_authorize", time.Since(start), status)

	return client, err
}

// Create records metrics for client provisioning operations.
func (c *clientUseCaseWithMetrics) Create(
	ctx context.Context,
	createClientInput *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	start := time.Now()
	output, err := c.next.Create(ctx, createClientInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_create", status)
	c.metrics.RecordDuration(ctx, "auth", "client_create", time.Since(start), status)

	return output, err
}

// List records metrics for client list operations.
func (c *clientUseCaseWithMetrics) List(ctx context.Context) ([]*authDomain.Client, error) {
	start := time.Now()
	clients, err := c.next.List(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_list", status)
	c.metrics.RecordDuration(ctx, "auth", "client_list", time.Since(start), status)

	return clients, err
}
