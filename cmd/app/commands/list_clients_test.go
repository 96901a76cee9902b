package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	authMocks "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http/mocks"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

func TestRunListClients(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()

	clients := []*authDomain.Client{
		{
			Token:     "admin-secret",
			Role:      authDomain.RoleAdmin,
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			Token:      "regular-secret",
			Role:       authDomain.RoleRegular,
			ProposalNo: 2619,
			Stream:     "proposal 2619",
			CreatedAt:  time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		},
	}

	t.Run("text", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("List", ctx).Return(clients, nil)

		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunListClients(ctx, mockUseCase, logger, io, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "admin")
		require.Contains(t, out.String(), "proposal=2619")
		require.NotContains(t, out.String(), "admin-secret")
		require.NotContains(t, out.String(), "regular-secret")
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("List", ctx).Return(clients, nil)

		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunListClients(ctx, mockUseCase, logger, io, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"role": "regular"`)
		require.Contains(t, out.String(), `"proposal_no": 2619`)
		require.NotContains(t, out.String(), "regular-secret")
	})

	t.Run("empty", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("List", ctx).Return([]*authDomain.Client{}, nil)

		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunListClients(ctx, mockUseCase, logger, io, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "No clients provisioned")
	})

	t.Run("list-failure", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		mockUseCase.On("List", ctx).Return(nil, apperrors.New("registry unavailable"))

		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunListClients(ctx, mockUseCase, logger, io, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to list clients")
	})
}
