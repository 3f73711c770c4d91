package service

import (
	"context"

	"github.com/matchkit/tourney/api/internal/model"
)

// TournamentRepository defines the interface for tournament storage
type TournamentRepository interface {
	Create(ctx context.Context, t *model.Tournament) error
	GetByID(ctx context.Context, id string) (*model.Tournament, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tournament, error)
	ListForClub(ctx context.Context, clubID string) ([]*model.Tournament, error)
}

// TournamentService handles tournament read operations
type TournamentService struct {
	tournamentRepo TournamentRepository
	clubRepo       ClubRepository
}

// NewTournamentService creates a new tournament service
func NewTournamentService(tournamentRepo TournamentRepository, clubRepo ClubRepository) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		clubRepo:       clubRepo,
	}
}

// GetTournament retrieves a tournament by ID
func (s *TournamentService) GetTournament(ctx context.Context, id string) (*model.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTournamentNotFound
	}
	return t, nil
}

// GetTournamentBySlug retrieves a tournament by its public endpoint slug
func (s *TournamentService) GetTournamentBySlug(ctx context.Context, slug string) (*model.Tournament, error) {
	t, err := s.tournamentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTournamentNotFound
	}
	return t, nil
}

// ListTournaments returns all tournaments across the clubs the user has
// access to
func (s *TournamentService) ListTournaments(ctx context.Context, userID string) ([]*model.Tournament, error) {
	clubs, err := s.clubRepo.GetClubsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tournaments := []*model.Tournament{}
	for _, club := range clubs {
		list, err := s.tournamentRepo.ListForClub(ctx, club.ID)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, list...)
	}
	return tournaments, nil
}
