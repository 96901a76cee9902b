package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// mockTokenService is a mock implementation of TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// mockClientRepository is a mock implementation of ClientRepository for testing.
type mockClientRepository struct {
	mock.Mock
}

func (m *mockClientRepository) Get(ctx context.Context, token string) (*authDomain.Client, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

func (m *mockClientRepository) Insert(ctx context.Context, client *authDomain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Client), args.Error(1)
}

func TestClientUseCase_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_KnownToken", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		client := &authDomain.Client{
			Token:      "known-token",
			Role:       authDomain.RoleRegular,
			ProposalNo: 2222,
			Stream:     "proposal 2222 stream",
		}
		mockRepo.On("Get", ctx, "known-token").Return(client, nil).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		got, err := uc.Authorize(ctx, "known-token")

		assert.NoError(t, err)
		assert.Equal(t, client, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_EmptyToken", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		uc := NewClientUseCase(mockRepo, mockTokens)
		got, err := uc.Authorize(ctx, "")

		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		// The repository must not even be consulted for an empty token.
		mockRepo.AssertNotCalled(t, "Get")
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		mockRepo.On("Get", ctx, "unknown-token").
			Return(nil, authDomain.ErrClientNotFound).
			Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		got, err := uc.Authorize(ctx, "unknown-token")

		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		expectedErr := errors.New("disk on fire")
		mockRepo.On("Get", ctx, "token").Return(nil, expectedErr).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		got, err := uc.Authorize(ctx, "token")

		assert.Nil(t, got)
		assert.Equal(t, expectedErr, err)
		assert.False(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		mockRepo.AssertExpectations(t)
	})
}

func TestClientUseCase_Create(t *testing.T) {
	ctx := context.Background()

	createInput := &authDomain.CreateClientInput{
		ProposalNo: 2222,
		Stream:     "proposal 2222 stream",
	}

	t.Run("Success_CreateNewClient", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		mockTokens.On("GenerateToken").Return("fresh-token", nil).Once()
		mockRepo.On("Insert", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return client.Token == "fresh-token" &&
				client.Role == authDomain.RoleRegular &&
				client.ProposalNo == createInput.ProposalNo &&
				client.Stream == createInput.Stream &&
				!client.CreatedAt.IsZero()
		})).Return(nil).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, createInput)

		assert.NoError(t, err)
		assert.NotNil(t, output)
		assert.Equal(t, "fresh-token", output.Token)
		assert.Equal(t, authDomain.RoleRegular, output.Client.Role)
		mockTokens.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_RetriesOnTokenCollision", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		mockTokens.On("GenerateToken").Return("colliding-token", nil).Once()
		mockTokens.On("GenerateToken").Return("second-token", nil).Once()

		mockRepo.On("Insert", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return client.Token == "colliding-token"
		})).Return(authDomain.ErrTokenCollision).Once()
		mockRepo.On("Insert", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return client.Token == "second-token"
		})).Return(nil).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, createInput)

		assert.NoError(t, err)
		assert.Equal(t, "second-token", output.Token)
		mockTokens.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_ProvisioningExhausted", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		mockTokens.On("GenerateToken").Return("always-colliding", nil).Times(maxTokenAttempts)
		mockRepo.On("Insert", ctx, mock.Anything).
			Return(authDomain.ErrTokenCollision).
			Times(maxTokenAttempts)

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, createInput)

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrProvisioningExhausted))
		mockTokens.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_InvalidStream", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, &authDomain.CreateClientInput{ProposalNo: 1, Stream: "  "})

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		mockTokens.AssertNotCalled(t, "GenerateToken")
	})

	t.Run("Error_EmptyStream", func(t *testing.T) {
		// An empty stream must be rejected before any token is generated.
		// A persisted regular record without a stream would fail validation
		// on the next load and refuse process start.
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, &authDomain.CreateClientInput{ProposalNo: 1, Stream: ""})

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		mockTokens.AssertNotCalled(t, "GenerateToken")
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("Error_InvalidProposal", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, &authDomain.CreateClientInput{ProposalNo: 0, Stream: "stream"})

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		mockTokens.AssertNotCalled(t, "GenerateToken")
	})

	t.Run("Error_TokenGenerationFails", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		expectedErr := errors.New("failed to generate random token")
		mockTokens.On("GenerateToken").Return("", expectedErr).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, createInput)

		assert.Nil(t, output)
		assert.Equal(t, expectedErr, err)
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("Error_InsertFailsWithNonCollisionError", func(t *testing.T) {
		mockRepo := &mockClientRepository{}
		mockTokens := &mockTokenService{}

		expectedErr := errors.New("failed to persist client document")
		mockTokens.On("GenerateToken").Return("fresh-token", nil).Once()
		mockRepo.On("Insert", ctx, mock.Anything).Return(expectedErr).Once()

		uc := NewClientUseCase(mockRepo, mockTokens)
		output, err := uc.Create(ctx, createInput)

		// Non-collision failures are not retried.
		assert.Nil(t, output)
		assert.Equal(t, expectedErr, err)
		mockTokens.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})
}

func TestClientUseCase_List(t *testing.T) {
	ctx := context.Background()

	mockRepo := &mockClientRepository{}
	mockTokens := &mockTokenService{}

	clients := []*authDomain.Client{
		{Token: "a", Role: authDomain.RoleAdmin},
		{Token: "b", Role: authDomain.RoleRegular, ProposalNo: 1, Stream: "s"},
	}
	mockRepo.On("List", ctx).Return(clients, nil).Once()

	uc := NewClientUseCase(mockRepo, mockTokens)
	got, err := uc.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, clients, got)
	mockRepo.AssertExpectations(t)
}
