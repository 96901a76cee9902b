package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http/dto"
	"github.com/RobertRosca/zulip-write-only-proxy/internal/auth/http/mocks"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// setupClientHandler creates a test handler with a mocked use case.
func setupClientHandler(t *testing.T) (*ClientHandler, *mocks.MockClientUseCase) {
	t.Helper()

	mockUseCase := &mocks.MockClientUseCase{}
	handler := NewClientHandler(mockUseCase, testLogger())

	return handler, mockUseCase
}

func TestClientHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		request := dto.CreateClientRequest{
			ProposalNo: 2222,
			Stream:     "proposal 2222 stream",
		}
		output := &authDomain.CreateClientOutput{
			Token: "generated-token",
			Client: &authDomain.Client{
				Token:      "generated-token",
				Role:       authDomain.RoleRegular,
				ProposalNo: 2222,
				Stream:     "proposal 2222 stream",
			},
		}

		mockUseCase.On("Create", mock.Anything, &authDomain.CreateClientInput{
			ProposalNo: 2222,
			Stream:     "proposal 2222 stream",
		}).Return(output, nil).Once()

		router := gin.New()
		router.POST("/api/v1/clients", handler.CreateHandler)

		body, _ := json.Marshal(request)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateClientResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "generated-token", response.Token)
		assert.Equal(t, int64(2222), response.ProposalNo)
		assert.Equal(t, "proposal 2222 stream", response.Stream)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		router := gin.New()
		router.POST("/api/v1/clients", handler.CreateHandler)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("Error_MissingStream", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		router := gin.New()
		router.POST("/api/v1/clients", handler.CreateHandler)

		body, _ := json.Marshal(dto.CreateClientRequest{ProposalNo: 2222})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("Error_ProvisioningExhausted", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		mockUseCase.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrProvisioningExhausted).
			Once()

		router := gin.New()
		router.POST("/api/v1/clients", handler.CreateHandler)

		body, _ := json.Marshal(dto.CreateClientRequest{ProposalNo: 2222, Stream: "stream"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "provisioning_exhausted")
	})
}

func TestClientHandler_ListHandler(t *testing.T) {
	t.Run("Success_TokensExcluded", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		clients := []*authDomain.Client{
			{Token: "admin-secret-token", Role: authDomain.RoleAdmin, CreatedAt: time.Now().UTC()},
			{
				Token:      "regular-secret-token",
				Role:       authDomain.RoleRegular,
				ProposalNo: 2222,
				Stream:     "proposal 2222 stream",
				CreatedAt:  time.Now().UTC(),
			},
		}
		mockUseCase.On("List", mock.Anything).Return(clients, nil).Once()

		router := gin.New()
		router.GET("/api/v1/clients", handler.ListHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListClientsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "admin", response.Data[0].Role)
		assert.Equal(t, int64(2222), response.Data[1].ProposalNo)

		// Tokens must never appear in the listing.
		assert.NotContains(t, w.Body.String(), "admin-secret-token")
		assert.NotContains(t, w.Body.String(), "regular-secret-token")
	})

	t.Run("Error_RegistryFailure", func(t *testing.T) {
		handler, mockUseCase := setupClientHandler(t)

		mockUseCase.On("List", mock.Anything).
			Return(nil, apperrors.New("registry unavailable")).
			Once()

		router := gin.New()
		router.GET("/api/v1/clients", handler.ListHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestClientHandler_MeHandler(t *testing.T) {
	t.Run("Success_ExcludesToken", func(t *testing.T) {
		handler, _ := setupClientHandler(t)

		client := &authDomain.Client{
			Token:      "secret-token",
			Role:       authDomain.RoleRegular,
			ProposalNo: 2222,
			Stream:     "proposal 2222 stream",
		}

		router := gin.New()
		router.GET("/api/v1/me", func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
			handler.MeHandler(c)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ClientResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "regular", response.Role)
		assert.Equal(t, int64(2222), response.ProposalNo)
		assert.Equal(t, "proposal 2222 stream", response.Stream)
		assert.NotContains(t, w.Body.String(), "secret-token")
	})

	t.Run("Error_NoClientInContext", func(t *testing.T) {
		handler, _ := setupClientHandler(t)

		router := gin.New()
		router.GET("/api/v1/me", handler.MeHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
