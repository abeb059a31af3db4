package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// mockUserStore is an in-memory UserStore for handler tests.
type mockUserStore struct {
	usersByID    map[uuid.UUID]*domain.User
	usersByEmail map[string]*domain.User

	createErr error
	updateErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		usersByID:    make(map[uuid.UUID]*domain.User),
		usersByEmail: make(map[string]*domain.User),
	}
}

func (s *mockUserStore) put(user *domain.User) {
	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
}

func (s *mockUserStore) Create(_ context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.usersByEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	s.put(user)
	return nil
}

func (s *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.usersByID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *mockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *mockUserStore) Update(_ context.Context, user *domain.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.put(user)
	return nil
}

// mockJWTService returns canned tokens and claims.
type mockJWTService struct {
	validateRefreshErr error
	refreshUserID      uuid.UUID
}

func (m *mockJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "access-token-" + userID.String(), nil
}

func (m *mockJWTService) GenerateRefreshToken(
	_ context.Context,
	userID uuid.UUID,
) (string, error) {
	return "refresh-token-" + userID.String(), nil
}

func (m *mockJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) ValidateRefreshToken(
	_ context.Context,
	_ string,
) (*auth.Claims, error) {
	if m.validateRefreshErr != nil {
		return nil, m.validateRefreshErr
	}
	return &auth.Claims{UserID: m.refreshUserID, TokenType: "refresh"}, nil
}

func (m *mockJWTService) AccessTokenLifetime() time.Duration {
	return time.Hour
}

// plainHasher is a transparent PasswordHasher/PasswordVerifier for tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func newTestAuthHandler(userStore *mockUserStore, jwt *mockJWTService) *AuthHandler {
	return NewAuthHandler(userStore, jwt, plainHasher{}, plainHasher{}, nil)
}

func seedUser(t *testing.T, userStore *mockUserStore, email, password string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Seed User", email, "hashed:"+password)
	if err != nil {
		t.Fatalf("Failed to build user: %v", err)
	}
	userStore.put(user)
	return user
}

func postJSON(target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userStore := newMockUserStore()
		handler := newTestAuthHandler(userStore, &mockJWTService{})

		req := postJSON("/api/auth/register", map[string]string{
			"name":     "New User",
			"email":    "new@example.com",
			"password": "password123",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp AuthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.UserID == uuid.Nil {
			t.Error("Expected a user ID in the response")
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Error("Expected both tokens in the response")
		}

		stored, err := userStore.GetByEmail(context.Background(), "new@example.com")
		if err != nil {
			t.Fatalf("Expected user to be stored: %v", err)
		}
		if stored.HashedPassword != "hashed:password123" {
			t.Errorf("Expected hashed password to be stored, got %q", stored.HashedPassword)
		}
	})

	t.Run("Duplicate email", func(t *testing.T) {
		userStore := newMockUserStore()
		seedUser(t, userStore, "taken@example.com", "password123")
		handler := newTestAuthHandler(userStore, &mockJWTService{})

		req := postJSON("/api/auth/register", map[string]string{
			"name":     "Another User",
			"email":    "taken@example.com",
			"password": "password123",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", rec.Code)
		}
	})

	t.Run("Short password", func(t *testing.T) {
		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{})

		req := postJSON("/api/auth/register", map[string]string{
			"name":     "New User",
			"email":    "new@example.com",
			"password": "short",
		})
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		handler := newTestAuthHandler(newMockUserStore(), &mockJWTService{})

		req := httptest.NewRequest(
			http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(`{bad`)),
		)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	userStore := newMockUserStore()
	user := seedUser(t, userStore, "login@example.com", "password123")
	handler := newTestAuthHandler(userStore, &mockJWTService{})

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"Success", "login@example.com", "password123", http.StatusOK},
		{"Wrong password", "login@example.com", "wrongpass", http.StatusUnauthorized},
		{"Unknown email", "nobody@example.com", "password123", http.StatusUnauthorized},
		{"Missing password", "login@example.com", "", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := postJSON("/api/auth/login", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			})
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}

			if tc.expectedStatus == http.StatusOK {
				var resp AuthResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.UserID != user.ID {
					t.Errorf("Expected user ID %v, got %v", user.ID, resp.UserID)
				}
			}
		})
	}
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	userStore := newMockUserStore()
	user := seedUser(t, userStore, "refresh@example.com", "password123")

	tests := []struct {
		name           string
		jwt            *mockJWTService
		expectedStatus int
	}{
		{
			name:           "Success",
			jwt:            &mockJWTService{refreshUserID: user.ID},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Expired refresh token",
			jwt:            &mockJWTService{validateRefreshErr: auth.ErrExpiredRefreshToken},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Access token presented",
			jwt:            &mockJWTService{validateRefreshErr: auth.ErrWrongTokenType},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token for deleted user",
			jwt:            &mockJWTService{refreshUserID: uuid.New()},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestAuthHandler(userStore, tc.jwt)

			req := postJSON("/api/auth/refresh", map[string]string{
				"refresh_token": "some-refresh-token",
			})
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rec.Code)
			}
		})
	}
}

func TestAuthHandlerProfile(t *testing.T) {
	userStore := newMockUserStore()
	user := seedUser(t, userStore, "profile@example.com", "password123")
	handler := newTestAuthHandler(userStore, &mockJWTService{})

	withUser := func(req *http.Request, userID uuid.UUID) *http.Request {
		return req.WithContext(
			context.WithValue(req.Context(), shared.UserIDContextKey, userID),
		)
	}

	t.Run("GetProfile success", func(t *testing.T) {
		req := withUser(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), user.ID)
		rec := httptest.NewRecorder()
		handler.GetProfile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var resp UserResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Email != user.Email {
			t.Errorf("Expected email %q, got %q", user.Email, resp.Email)
		}

		// The password hash must never appear in the response body.
		if bytes.Contains(rec.Body.Bytes(), []byte("hashed:")) {
			t.Error("Response body leaked the password hash")
		}
	})

	t.Run("GetProfile unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		rec := httptest.NewRecorder()
		handler.GetProfile(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("UpdateProfile changes name only", func(t *testing.T) {
		req := withUser(
			postJSON("/api/auth/profile", map[string]string{"name": "Renamed User"}),
			user.ID,
		)
		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		stored, _ := userStore.GetByID(context.Background(), user.ID)
		if stored.Name != "Renamed User" {
			t.Errorf("Expected name updated, got %q", stored.Name)
		}
		if stored.Email != "profile@example.com" {
			t.Errorf("Expected email preserved, got %q", stored.Email)
		}
	})

	t.Run("UpdateProfile rejects invalid email", func(t *testing.T) {
		req := withUser(
			postJSON("/api/auth/profile", map[string]string{"email": "not-an-email"}),
			user.ID,
		)
		rec := httptest.NewRecorder()
		handler.UpdateProfile(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}
