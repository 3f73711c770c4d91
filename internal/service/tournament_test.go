package service

import (
	"context"
	"errors"
	"testing"

	"github.com/matchkit/tourney/api/internal/model"
)

type mockTournamentRepo struct {
	tournaments map[string]*model.Tournament
	slugIndex   map[string]*model.Tournament
}

func newMockTournamentRepo() *mockTournamentRepo {
	return &mockTournamentRepo{
		tournaments: make(map[string]*model.Tournament),
		slugIndex:   make(map[string]*model.Tournament),
	}
}

func (m *mockTournamentRepo) Create(ctx context.Context, t *model.Tournament) error {
	m.tournaments[t.ID] = t
	m.slugIndex[t.EndpointSlug] = t
	return nil
}

func (m *mockTournamentRepo) GetByID(ctx context.Context, id string) (*model.Tournament, error) {
	return m.tournaments[id], nil
}

func (m *mockTournamentRepo) GetBySlug(ctx context.Context, slug string) (*model.Tournament, error) {
	return m.slugIndex[slug], nil
}

func (m *mockTournamentRepo) ListForClub(ctx context.Context, clubID string) ([]*model.Tournament, error) {
	var result []*model.Tournament
	for _, t := range m.tournaments {
		if t.ClubID == clubID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTournamentRepo) add(id, clubID, name, slug string) *model.Tournament {
	t := &model.Tournament{ID: id, ClubID: clubID, Name: name, EndpointSlug: slug}
	m.tournaments[id] = t
	m.slugIndex[slug] = t
	return t
}

func TestGetTournament(t *testing.T) {
	repo := newMockTournamentRepo()
	repo.add("tournament:1", "club:1", "Spring Open", "spring-open")
	svc := NewTournamentService(repo, newMockClubRepo())

	got, err := svc.GetTournament(context.Background(), "tournament:1")
	if err != nil {
		t.Fatalf("GetTournament failed: %v", err)
	}
	if got.Name != "Spring Open" {
		t.Errorf("unexpected name %q", got.Name)
	}

	_, err = svc.GetTournament(context.Background(), "tournament:missing")
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestGetTournamentBySlug(t *testing.T) {
	repo := newMockTournamentRepo()
	repo.add("tournament:1", "club:1", "Spring Open", "spring-open")
	svc := NewTournamentService(repo, newMockClubRepo())

	got, err := svc.GetTournamentBySlug(context.Background(), "spring-open")
	if err != nil {
		t.Fatalf("GetTournamentBySlug failed: %v", err)
	}
	if got.ID != "tournament:1" {
		t.Errorf("unexpected tournament %s", got.ID)
	}

	_, err = svc.GetTournamentBySlug(context.Background(), "no-such-slug")
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestListTournaments(t *testing.T) {
	clubRepo := newMockClubRepo()
	club, err := clubRepo.CreateWithOwner(context.Background(), "Chess Club", "user:alice")
	if err != nil {
		t.Fatalf("CreateWithOwner failed: %v", err)
	}

	repo := newMockTournamentRepo()
	repo.add("tournament:1", club.ID, "Spring Open", "spring-open")
	repo.add("tournament:2", club.ID, "Autumn Open", "autumn-open")
	repo.add("tournament:3", "club:other", "Other", "other")

	svc := NewTournamentService(repo, clubRepo)
	list, err := svc.ListTournaments(context.Background(), "user:alice")
	if err != nil {
		t.Fatalf("ListTournaments failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 tournaments, got %d", len(list))
	}
	for _, tt := range list {
		if tt.ClubID != club.ID {
			t.Errorf("tournament %s from foreign club %s", tt.ID, tt.ClubID)
		}
	}
}
