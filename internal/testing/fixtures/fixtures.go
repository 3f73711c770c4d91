// Package fixtures provides a factory for seeding test data. The factory
// goes through the real repositories, so every fixture row passes the same
// constraints production writes do.
package fixtures

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/internal/repository"
)

// DefaultPassword is the password every fixture user can sign in with.
const DefaultPassword = "fixture-password"

// Factory seeds users, clubs, and tournaments for acceptance tests.
type Factory struct {
	Users       *repository.UserRepository
	Clubs       *repository.ClubRepository
	Access      *repository.ClubAccessRepository
	Tournaments *repository.TournamentRepository
}

var seq atomic.Int64

// New creates a factory backed by the given database.
func New(db database.Database) *Factory {
	return &Factory{
		Users:       repository.NewUserRepository(db),
		Clubs:       repository.NewClubRepository(db),
		Access:      repository.NewClubAccessRepository(db),
		Tournaments: repository.NewTournamentRepository(db),
	}
}

func nextID() int64 {
	return seq.Add(1)
}

func ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return ctx
}

// UserOpts customizes CreateUser.
type UserOpts struct {
	Email        string
	Name         string
	Password     string
	NoPassword   bool
	IsSuperadmin bool
}

// WithEmail sets the user's email.
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// WithoutPassword creates a user that has no credentials set.
func WithoutPassword() func(*UserOpts) {
	return func(o *UserOpts) { o.NoPassword = true }
}

// AsSuperadmin marks the user as a superadmin.
func AsSuperadmin() func(*UserOpts) {
	return func(o *UserOpts) { o.IsSuperadmin = true }
}

// CreateUser creates a user. Unless overridden, the email is unique per call
// and the password is DefaultPassword.
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	n := nextID()
	o := UserOpts{
		Email:    fmt.Sprintf("user%d@example.com", n),
		Name:     fmt.Sprintf("User %d", n),
		Password: DefaultPassword,
	}
	for _, opt := range opts {
		opt(&o)
	}

	user := &model.User{
		Email:        strings.ToLower(o.Email),
		Name:         o.Name,
		IsSuperadmin: o.IsSuperadmin,
	}
	if !o.NoPassword {
		// MinCost keeps fixture creation fast; production uses a higher cost.
		hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("fixtures: hashing password: %v", err)
		}
		s := string(hash)
		user.Hash = &s
	}

	if err := f.Users.Create(ctx(), user); err != nil {
		t.Fatalf("fixtures: creating user: %v", err)
	}
	return user
}

// CreateClub creates a club owned by the given user.
func (f *Factory) CreateClub(t *testing.T, owner *model.User) *model.Club {
	t.Helper()

	club, err := f.Clubs.CreateWithOwner(ctx(), fmt.Sprintf("Club %d", nextID()), owner.ID)
	if err != nil {
		t.Fatalf("fixtures: creating club: %v", err)
	}
	return club
}

// AddCollaborator grants the user COLLABORATOR access to the club.
func (f *Factory) AddCollaborator(t *testing.T, club *model.Club, user *model.User) {
	t.Helper()

	if err := f.Access.GrantCollaborator(ctx(), club.ID, user.ID); err != nil {
		t.Fatalf("fixtures: granting collaborator: %v", err)
	}
}

// TournamentOpts customizes CreateTournament.
type TournamentOpts struct {
	Name        string
	Slug        string
	PlayersOnly bool
}

// WithSlug sets the tournament's dashboard slug.
func WithSlug(slug string) func(*TournamentOpts) {
	return func(o *TournamentOpts) { o.Slug = slug }
}

// PlayersOnly restricts the tournament's dashboard to participants.
func PlayersOnly() func(*TournamentOpts) {
	return func(o *TournamentOpts) { o.PlayersOnly = true }
}

// CreateTournament creates a tournament under the club with a unique slug.
func (f *Factory) CreateTournament(t *testing.T, club *model.Club, opts ...func(*TournamentOpts)) *model.Tournament {
	t.Helper()

	n := nextID()
	o := TournamentOpts{
		Name: fmt.Sprintf("Tournament %d", n),
		Slug: fmt.Sprintf("tournament-%d", n),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tournament := &model.Tournament{
		ClubID:       club.ID,
		Name:         o.Name,
		EndpointSlug: o.Slug,
		PlayersOnly:  o.PlayersOnly,
	}
	if err := f.Tournaments.Create(ctx(), tournament); err != nil {
		t.Fatalf("fixtures: creating tournament: %v", err)
	}
	return tournament
}
