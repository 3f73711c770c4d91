package model

import "time"

// User represents a user account. Accounts are created externally; this
// subsystem only reads them and updates the password hash.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Hash         *string   `json:"-"` // Never expose password hash
	IsSuperadmin bool      `json:"is_superadmin"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Principal is the resolved identity attached to a request after the
// authentication guard runs. Anonymous principals are produced only by the
// public-dashboard policies; they grant read-only access to the tournament
// that admitted them.
type Principal struct {
	User      *User
	Anonymous bool
}

// AuthenticatedPrincipal wraps a resolved user.
func AuthenticatedPrincipal(u *User) Principal {
	return Principal{User: u}
}

// AnonymousPrincipal marks an unauthenticated but admitted request.
func AnonymousPrincipal() Principal {
	return Principal{Anonymous: true}
}
