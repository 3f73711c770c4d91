package service

import (
	"context"
	"strings"
	"time"

	"github.com/matchkit/tourney/api/pkg/jwt"
)

// ResetTokenDelivery sends a password reset token out-of-band (typically
// email). When no delivery is configured the token is returned to the
// caller instead, which is only appropriate for development setups.
type ResetTokenDelivery interface {
	Deliver(ctx context.Context, email, token string) error
}

// PasswordResetService handles the password reset flow
type PasswordResetService struct {
	userRepo UserRepository
	codec    *jwt.Codec
	resetTTL time.Duration
	delivery ResetTokenDelivery
}

// PasswordResetServiceConfig holds configuration for the reset service
type PasswordResetServiceConfig struct {
	UserRepo UserRepository
	Codec    *jwt.Codec
	ResetTTL time.Duration
	Delivery ResetTokenDelivery
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(cfg PasswordResetServiceConfig) *PasswordResetService {
	return &PasswordResetService{
		userRepo: cfg.UserRepo,
		codec:    cfg.Codec,
		resetTTL: cfg.ResetTTL,
		delivery: cfg.Delivery,
	}
}

// Request issues a reset token for the given email. Unknown addresses
// yield an empty token so the response shape never reveals whether an
// account exists. When a delivery is configured the token is sent
// out-of-band and the returned token is empty as well.
func (s *PasswordResetService) Request(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	token, err := s.codec.IssueReset(user.Email, s.resetTTL)
	if err != nil {
		return "", err
	}

	if s.delivery != nil {
		if err := s.delivery.Deliver(ctx, user.Email, token); err != nil {
			return "", err
		}
		return "", nil
	}

	return token, nil
}

// Confirm validates a reset token and sets the new password. The password
// is validated before any token work so a weak password never burns a
// valid token round-trip.
func (s *PasswordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	email, err := s.codec.VerifyReset(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}
