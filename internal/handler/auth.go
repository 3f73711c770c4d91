package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/internal/service"
)

// AuthService defines the auth operations the handler needs
type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// PasswordResetService defines the reset operations the handler needs
type PasswordResetService interface {
	Request(ctx context.Context, email string) (string, error)
	Confirm(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  AuthService
	resetService PasswordResetService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, resetService PasswordResetService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
	}
}

// TokenResponse represents a successful token grant
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

// ResetRequestBody represents the request-password-reset body
type ResetRequestBody struct {
	Email string `json:"email"`
}

// ResetRequestResponse represents the request-password-reset response.
// The shape is identical whether or not the email maps to an account.
type ResetRequestResponse struct {
	ResetToken string `json:"reset_token"`
}

// ResetConfirmBody represents the reset-password body
type ResetConfirmBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetConfirmResponse represents the reset-password response
type ResetConfirmResponse struct {
	Success bool `json:"success"`
}

// Token handles POST {prefix}/token. The request is an OAuth2 password
// grant form with username and password fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, model.NewBadRequestError("invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "username", Message: "username and password are required"},
		}))
		return
	}

	result, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, model.NewUnauthorizedError("Incorrect email or password").
				WithHeader("WWW-Authenticate", "Bearer"))
			return
		}
		slog.Error("login failed", slog.Any("error", err))
		WriteError(w, model.NewInternalError(""))
		return
	}

	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		UserID:      result.User.ID,
	})
}

// RequestPasswordReset handles POST {prefix}/auth/request-password-reset.
// The response never reveals whether the email maps to an account.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body ResetRequestBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	token, err := h.resetService.Request(r.Context(), body.Email)
	if err != nil {
		slog.Error("password reset request failed", slog.Any("error", err))
		WriteError(w, model.NewInternalError(""))
		return
	}

	WriteJSON(w, http.StatusOK, ResetRequestResponse{ResetToken: token})
}

// ResetPassword handles POST {prefix}/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body ResetConfirmBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if err := h.resetService.Confirm(r.Context(), body.Token, body.NewPassword); err != nil {
		h.handleResetError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, ResetConfirmResponse{Success: true})
}

func (h *AuthHandler) handleResetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "new_password", Message: err.Error()},
		}))
	case errors.Is(err, service.ErrInvalidResetToken):
		// Deliberately vague so the endpoint cannot be used to probe
		// which tokens or accounts are live.
		WriteError(w, model.NewBadRequestError("invalid or expired reset token"))
	default:
		slog.Error("password reset failed", slog.Any("error", err))
		WriteError(w, model.NewInternalError(""))
	}
}
