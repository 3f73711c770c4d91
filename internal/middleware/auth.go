package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/matchkit/tourney/api/internal/model"
)

// SessionVerifier validates a session token and returns the subject email
type SessionVerifier interface {
	VerifySession(token string) (string, error)
}

// UserLookup resolves a token subject to a stored user
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AccessStore answers club and tournament access questions
type AccessStore interface {
	HasClubAccess(ctx context.Context, clubID, userID string) (bool, error)
	HasTournamentAccess(ctx context.Context, tournamentID, userID string) (bool, error)
}

// TournamentLookup resolves tournaments for the public dashboard policies
type TournamentLookup interface {
	GetByID(ctx context.Context, id string) (*model.Tournament, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tournament, error)
}

// Guard carries the authentication and authorization policies. Every
// denial is the same generic 401 so callers cannot distinguish a bad
// token from a resource they simply may not see.
type Guard struct {
	verifier    SessionVerifier
	users       UserLookup
	access      AccessStore
	tournaments TournamentLookup
}

// GuardConfig holds the guard's collaborators
type GuardConfig struct {
	Verifier    SessionVerifier
	Users       UserLookup
	Access      AccessStore
	Tournaments TournamentLookup
}

// NewGuard creates a new guard
func NewGuard(cfg GuardConfig) *Guard {
	return &Guard{
		verifier:    cfg.Verifier,
		users:       cfg.Users,
		access:      cfg.Access,
		tournaments: cfg.Tournaments,
	}
}

// GetPrincipal extracts the resolved principal from context
func GetPrincipal(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(model.Principal)
	return p, ok
}

func withPrincipal(r *http.Request, p model.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), PrincipalKey, p))
}

// resolveUser extracts the bearer token, verifies it and loads the user.
// A missing or invalid token yields a nil user; a non-nil error means the
// user store failed, which policies surface as a server error rather
// than a denial.
func (g *Guard) resolveUser(r *http.Request) (*model.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, nil
	}

	email, err := g.verifier.VerifySession(parts[1])
	if err != nil {
		return nil, nil
	}

	user, err := g.users.GetByEmail(r.Context(), email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate requires a valid session token
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolveUser(r)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if user == nil {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		next.ServeHTTP(w, withPrincipal(r, model.AuthenticatedPrincipal(user)))
	})
}

// ForClub requires a valid session token whose user has access to the
// club named by the {clubId} path parameter
func (g *Guard) ForClub(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolveUser(r)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if user == nil {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		clubID := r.PathValue("clubId")
		ok, err := g.access.HasClubAccess(r.Context(), clubID, user.ID)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if !ok {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		next.ServeHTTP(w, withPrincipal(r, model.AuthenticatedPrincipal(user)))
	})
}

// ForTournament requires a valid session token whose user has access to
// the club owning the tournament named by {tournamentId}
func (g *Guard) ForTournament(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolveUser(r)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if user == nil {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		tournamentID := r.PathValue("tournamentId")
		ok, err := g.access.HasTournamentAccess(r.Context(), tournamentID, user.ID)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if !ok {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		next.ServeHTTP(w, withPrincipal(r, model.AuthenticatedPrincipal(user)))
	})
}

// OrPublicDashboard admits a user with tournament access as an
// authenticated principal, and anyone else as an anonymous principal as
// long as the tournament exists. The 401 is reserved for requests naming
// a tournament that does not exist.
func (g *Guard) OrPublicDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tournamentID := r.PathValue("tournamentId")

		user, err := g.resolveUser(r)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if user != nil {
			ok, err := g.access.HasTournamentAccess(r.Context(), tournamentID, user.ID)
			if err != nil {
				model.NewInternalError("").WriteJSON(w)
				return
			}
			if ok {
				next.ServeHTTP(w, withPrincipal(r, model.AuthenticatedPrincipal(user)))
				return
			}
		}

		t, err := g.tournaments.GetByID(r.Context(), tournamentID)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if t == nil {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		next.ServeHTTP(w, withPrincipal(r, model.AnonymousPrincipal()))
	})
}

// OrPublicDashboardBySlug admits anyone anonymously when the request
// carries an endpoint_name query parameter naming an existing tournament.
// Without the parameter it behaves like Authenticate.
func (g *Guard) OrPublicDashboardBySlug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("endpoint_name")
		if slug == "" {
			g.Authenticate(next).ServeHTTP(w, r)
			return
		}

		t, err := g.tournaments.GetBySlug(r.Context(), slug)
		if err != nil {
			model.NewInternalError("").WriteJSON(w)
			return
		}
		if t == nil {
			model.NewUnauthenticatedError().WriteJSON(w)
			return
		}

		next.ServeHTTP(w, withPrincipal(r, model.AnonymousPrincipal()))
	})
}
