package usecase

import (
	"context"
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	messagingDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/metrics"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// messageUseCaseWithMetrics decorates MessageUseCase with metrics instrumentation.
type messageUseCaseWithMetrics struct {
	next    MessageUseCase
	metrics metrics.BusinessMetrics
}

// NewMessageUseCaseWithMetrics wraps a MessageUseCase with metrics recording.
func NewMessageUseCaseWithMetrics(useCase MessageUseCase, m metrics.BusinessMetrics) MessageUseCase {
	return &messageUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Send records metrics for message relay operations.
func (m *messageUseCaseWithMetrics) Send(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.SendMessageInput,
) (*messagingDomain.SendMessageOutput, error) {
	start := time.Now()
	output, err := m.next.Send(ctx, client, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "messaging", "message_send", status)
	m.metrics.RecordDuration(ctx, "messaging", "message_send", time.Since(start), status)

	return output, err
}

// Update records metrics for message edit operations.
func (m *messageUseCaseWithMetrics) Update(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.UpdateMessageInput,
) error {
	start := time.Now()
	err := m.next.Update(ctx, client, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "messaging", "message_update", status)
	m.metrics.RecordDuration(ctx, "messaging", "message_update", time.Since(start), status)

	return err
}

// Upload records metrics for standalone file upload operations.
func (m *messageUseCaseWithMetrics) Upload(
	ctx context.Context,
	client *authDomain.Client,
	attachment *messagingDomain.Attachment,
) (string, error) {
	start := time.Now()
	uri, err := m.next.Upload(ctx, client, attachment)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "messaging", "file_upload", status)
	m.metrics.RecordDuration(ctx, "messaging", "file_upload", time.Since(start), status)

	return uri, err
}

// GetTopics records metrics for topic listing operations.
func (m *messageUseCaseWithMetrics) GetTopics(
	ctx context.Context,
	client *authDomain.Client,
) ([]zulip.Topic, error) {
	start := time.Now()
	topics, err := m.next.GetTopics(ctx, client)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "messaging", "topics_list", status)
	m.metrics.RecordDuration(ctx, "messaging", "topics_list", time.Since(start), status)

	return topics, err
}
