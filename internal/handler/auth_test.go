package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/internal/service"
)

// ============================================================================
// Mock AuthService
// ============================================================================

type mockAuthService struct {
	loginFunc func(ctx context.Context, email, password string) (*service.LoginResult, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

type mockResetService struct {
	requestFunc func(ctx context.Context, email string) (string, error)
	confirmFunc func(ctx context.Context, token, newPassword string) error
}

func (m *mockResetService) Request(ctx context.Context, email string) (string, error) {
	if m.requestFunc != nil {
		return m.requestFunc(ctx, email)
	}
	return "", nil
}

func (m *mockResetService) Confirm(ctx context.Context, token, newPassword string) error {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, token, newPassword)
	}
	return nil
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(t *testing.T, target string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ============================================================================
// Token tests
// ============================================================================

func TestToken_ValidCredentials_ReturnsOK(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.LoginResult, error) {
			if email != "alice@example.com" || password != "secret pass" {
				t.Errorf("unexpected credentials %q / %q", email, password)
			}
			return &service.LoginResult{
				User:  &model.User{ID: "user:alice", Email: email},
				Token: "signed-token",
			}, nil
		},
	}, &mockResetService{})

	rec := httptest.NewRecorder()
	h.Token(rec, postForm("/v1/token", url.Values{
		"username": {"alice@example.com"},
		"password": {"secret pass"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Errorf("unexpected access_token %q", resp.AccessToken)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %q", resp.TokenType)
	}
	if resp.UserID != "user:alice" {
		t.Errorf("unexpected user_id %q", resp.UserID)
	}
}

func TestToken_InvalidCredentials_ReturnsUnauthorized(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{})

	rec := httptest.NewRecorder()
	h.Token(rec, postForm("/v1/token", url.Values{
		"username": {"alice@example.com"},
		"password": {"wrong"},
	}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("401 must carry WWW-Authenticate: Bearer")
	}
}

func TestToken_MissingFields_ReturnsValidationError(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{})

	rec := httptest.NewRecorder()
	h.Token(rec, postForm("/v1/token", url.Values{"username": {"alice@example.com"}}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

// ============================================================================
// Password reset tests
// ============================================================================

func TestRequestPasswordReset_KnownEmail_ReturnsToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{
		requestFunc: func(ctx context.Context, email string) (string, error) {
			return "reset-token", nil
		},
	})

	rec := httptest.NewRecorder()
	h.RequestPasswordReset(rec, postJSON(t, "/v1/auth/request-password-reset", ResetRequestBody{
		Email: "alice@example.com",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ResetRequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ResetToken != "reset-token" {
		t.Errorf("unexpected reset_token %q", resp.ResetToken)
	}
}

func TestRequestPasswordReset_UnknownEmail_ReturnsSameShape(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{})

	rec := httptest.NewRecorder()
	h.RequestPasswordReset(rec, postJSON(t, "/v1/auth/request-password-reset", ResetRequestBody{
		Email: "nobody@example.com",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("unknown email must still return 200, got %d", rec.Code)
	}
	var resp ResetRequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ResetToken != "" {
		t.Error("unknown email must yield an empty token")
	}
}

func TestResetPassword_ValidToken_ReturnsSuccess(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{})

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, postJSON(t, "/v1/auth/reset-password", ResetConfirmBody{
		Token:       "valid-token",
		NewPassword: "new password 1",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ResetConfirmResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success: true")
	}
}

func TestResetPassword_InvalidToken_ReturnsBadRequest(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{
		confirmFunc: func(ctx context.Context, token, newPassword string) error {
			return service.ErrInvalidResetToken
		},
	})

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, postJSON(t, "/v1/auth/reset-password", ResetConfirmBody{
		Token:       "bad-token",
		NewPassword: "new password 1",
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestResetPassword_ShortPassword_ReturnsValidationError(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{
		confirmFunc: func(ctx context.Context, token, newPassword string) error {
			return service.ErrPasswordTooShort
		},
	})

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, postJSON(t, "/v1/auth/reset-password", ResetConfirmBody{
		Token:       "valid-token",
		NewPassword: "short",
	}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestResetPassword_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockResetService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/reset-password", strings.NewReader("{not json"))
	h.ResetPassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
