// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
)

// MockClientUseCase is a mock implementation of ClientUseCase for testing.
type MockClientUseCase struct {
	mock.Mock
}

// Authorize mocks the Authorize method of ClientUseCase.
func (m *MockClientUseCase) Authorize(ctx context.Context, token string) (*authDomain.Client, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

// Create mocks the Create method of ClientUseCase.
func (m *MockClientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateClientOutput), args.Error(1)
}

// List mocks the List method of ClientUseCase.
func (m *MockClientUseCase) List(ctx context.Context) ([]*authDomain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Client), args.Error(1)
}
