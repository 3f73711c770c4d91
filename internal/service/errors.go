package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 48 characters")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ===== Club Errors =====
var (
	ErrClubNotFound       = errors.New("club not found")
	ErrClubNameRequired   = errors.New("club name is required")
	ErrClubHasTournaments = errors.New("club still owns tournaments")
	ErrClubQuotaExceeded  = errors.New("club quota exceeded")
)

// ===== Tournament Errors =====
var (
	ErrTournamentNotFound = errors.New("tournament not found")
)
