package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/tinywideclouds/go-marketplace-notifier/internal/api"
	"github.com/tinywideclouds/go-marketplace-notifier/pkg/marketplace"
)

// --- Mocks ---
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetProfile(ctx context.Context, userID string) (*marketplace.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.UserProfile), args.Error(1)
}
func (m *MockProfileStore) SetToken(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}
func (m *MockProfileStore) ClearToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// --- Setup ---
func setupAPI(t *testing.T) (*api.TokenAPI, *MockProfileStore) {
	mockStore := new(MockProfileStore)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return api.NewTokenAPI(mockStore, logger), mockStore
}

// Helper to inject UserID into context (simulating Auth Middleware)
func withUser(req *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(req.Context(), userID)
	return req.WithContext(ctx)
}

// --- Tests ---

func TestRegisterToken(t *testing.T) {
	apiHandler, mockStore := setupAPI(t)

	t.Run("Success", func(t *testing.T) {
		payload := map[string]string{"token": "fcm-token-abc"}
		body, _ := json.Marshal(payload)

		req := withUser(httptest.NewRequest("PUT", "/tokens", bytes.NewReader(body)), "user-123")
		w := httptest.NewRecorder()

		mockStore.On("SetToken", mock.Anything, "user-123", "fcm-token-abc").Return(nil)

		apiHandler.RegisterToken(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Rejects Empty Token", func(t *testing.T) {
		payload := map[string]string{"token": ""}
		body, _ := json.Marshal(payload)
		req := withUser(httptest.NewRequest("PUT", "/tokens", bytes.NewReader(body)), "user-123")
		w := httptest.NewRecorder()

		apiHandler.RegisterToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Rejects Missing User Context", func(t *testing.T) {
		payload := map[string]string{"token": "fcm-token-abc"}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("PUT", "/tokens", bytes.NewReader(body)) // No user
		w := httptest.NewRecorder()

		apiHandler.RegisterToken(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUnregisterToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		apiHandler, mockStore := setupAPI(t)

		req := withUser(httptest.NewRequest("DELETE", "/tokens", nil), "user-123")
		w := httptest.NewRecorder()

		mockStore.On("ClearToken", mock.Anything, "user-123").Return(nil)

		apiHandler.UnregisterToken(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Failure Is Still NoContent", func(t *testing.T) {
		apiHandler, mockStore := setupAPI(t)

		req := withUser(httptest.NewRequest("DELETE", "/tokens", nil), "user-123")
		w := httptest.NewRecorder()

		mockStore.On("ClearToken", mock.Anything, "user-123").Return(assert.AnError)

		apiHandler.UnregisterToken(w, req)

		// Unregister is idempotent from the client's point of view.
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
