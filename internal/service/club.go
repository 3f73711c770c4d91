package service

import (
	"context"
	"errors"
	"strings"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

const maxClubNameLength = 100

// ClubRepository defines the interface for club storage
type ClubRepository interface {
	CreateWithOwner(ctx context.Context, name, ownerID string) (*model.Club, error)
	Update(ctx context.Context, clubID, name string) (*model.Club, error)
	Delete(ctx context.Context, clubID string) error
	GetClubsForUser(ctx context.Context, userID string) ([]*model.Club, error)
}

// ClubAccessRepository defines the interface for club access relations
type ClubAccessRepository interface {
	GrantCollaborator(ctx context.Context, clubID, userID string) error
	Revoke(ctx context.Context, clubID, userID string) error
	ListUsers(ctx context.Context, clubID string) ([]*model.User, error)
}

// RequirementChecker gates club creation, typically on account quota.
type RequirementChecker interface {
	CanCreateClub(ctx context.Context, user *model.User) error
}

// NoRequirements is a RequirementChecker that allows everything.
type NoRequirements struct{}

func (NoRequirements) CanCreateClub(ctx context.Context, user *model.User) error { return nil }

// ClubService handles club operations
type ClubService struct {
	clubRepo     ClubRepository
	accessRepo   ClubAccessRepository
	userRepo     UserRepository
	requirements RequirementChecker
}

// ClubServiceConfig holds configuration for the club service
type ClubServiceConfig struct {
	ClubRepo     ClubRepository
	AccessRepo   ClubAccessRepository
	UserRepo     UserRepository
	Requirements RequirementChecker
}

// NewClubService creates a new club service
func NewClubService(cfg ClubServiceConfig) *ClubService {
	requirements := cfg.Requirements
	if requirements == nil {
		requirements = NoRequirements{}
	}
	return &ClubService{
		clubRepo:     cfg.ClubRepo,
		accessRepo:   cfg.AccessRepo,
		userRepo:     cfg.UserRepo,
		requirements: requirements,
	}
}

// CreateClub creates a club with the creator as OWNER, atomically
func (s *ClubService) CreateClub(ctx context.Context, creator *model.User, name string) (*model.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrClubNameRequired
	}
	if len(name) > maxClubNameLength {
		return nil, ErrClubNameRequired
	}

	if err := s.requirements.CanCreateClub(ctx, creator); err != nil {
		return nil, err
	}

	return s.clubRepo.CreateWithOwner(ctx, name, creator.ID)
}

// UpdateClub renames a club
func (s *ClubService) UpdateClub(ctx context.Context, clubID, name string) (*model.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxClubNameLength {
		return nil, ErrClubNameRequired
	}

	club, err := s.clubRepo.Update(ctx, clubID, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

// DeleteClub deletes a club and its access relations. A club that still
// owns tournaments cannot be deleted.
func (s *ClubService) DeleteClub(ctx context.Context, clubID string) error {
	err := s.clubRepo.Delete(ctx, clubID)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return ErrClubHasTournaments
		}
		if errors.Is(err, database.ErrNotFound) {
			return ErrClubNotFound
		}
		return err
	}
	return nil
}

// ListClubs returns all clubs the user has access to
func (s *ClubService) ListClubs(ctx context.Context, userID string) ([]*model.Club, error) {
	return s.clubRepo.GetClubsForUser(ctx, userID)
}

// AddCollaborator grants COLLABORATOR access to the user with the given
// email. Granting access a second time is not an error.
func (s *ClubService) AddCollaborator(ctx context.Context, clubID, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.accessRepo.GrantCollaborator(ctx, clubID, user.ID); err != nil {
		if !errors.Is(err, database.ErrDuplicate) {
			return nil, err
		}
	}
	return user, nil
}

// RemoveCollaborator revokes a user's access to a club
func (s *ClubService) RemoveCollaborator(ctx context.Context, clubID, userID string) error {
	return s.accessRepo.Revoke(ctx, clubID, userID)
}

// ListMembers returns all users with access to a club
func (s *ClubService) ListMembers(ctx context.Context, clubID string) ([]*model.User, error) {
	return s.accessRepo.ListUsers(ctx, clubID)
}
