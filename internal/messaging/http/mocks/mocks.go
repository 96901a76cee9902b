// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	messagingDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/messaging/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// MockMessageUseCase is a mock implementation of MessageUseCase for testing.
type MockMessageUseCase struct {
	mock.Mock
}

// Send mocks the Send method of MessageUseCase.
func (m *MockMessageUseCase) Send(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.SendMessageInput,
) (*messagingDomain.SendMessageOutput, error) {
	args := m.Called(ctx, client, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagingDomain.SendMessageOutput), args.Error(1)
}

// Update mocks the Update method of MessageUseCase.
func (m *MockMessageUseCase) Update(
	ctx context.Context,
	client *authDomain.Client,
	input *messagingDomain.UpdateMessageInput,
) error {
	args := m.Called(ctx, client, input)
	return args.Error(0)
}

// Upload mocks the Upload method of MessageUseCase.
func (m *MockMessageUseCase) Upload(
	ctx context.Context,
	client *authDomain.Client,
	attachment *messagingDomain.Attachment,
) (string, error) {
	args := m.Called(ctx, client, attachment)
	return args.String(0), args.Error(1)
}

// GetTopics mocks the GetTopics method of MessageUseCase.
func (m *MockMessageUseCase) GetTopics(
	ctx context.Context,
	client *authDomain.Client,
) ([]zulip.Topic, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zulip.Topic), args.Error(1)
}
