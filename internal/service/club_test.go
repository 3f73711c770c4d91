package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

type mockClubRepo struct {
	clubs     map[string]*model.Club
	owners    map[string]string
	nextID    int
	createErr error
	deleteErr error
}

func newMockClubRepo() *mockClubRepo {
	return &mockClubRepo{
		clubs:  make(map[string]*model.Club),
		owners: make(map[string]string),
	}
}

func (m *mockClubRepo) CreateWithOwner(ctx context.Context, name, ownerID string) (*model.Club, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	club := &model.Club{
		ID:        fmt.Sprintf("club:%d", m.nextID),
		Name:      name,
		CreatedOn: time.Now(),
	}
	m.clubs[club.ID] = club
	m.owners[club.ID] = ownerID
	return club, nil
}

func (m *mockClubRepo) Update(ctx context.Context, clubID, name string) (*model.Club, error) {
	club, ok := m.clubs[clubID]
	if !ok {
		return nil, database.ErrNotFound
	}
	club.Name = name
	return club, nil
}

func (m *mockClubRepo) Delete(ctx context.Context, clubID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.clubs[clubID]; !ok {
		return database.ErrNotFound
	}
	delete(m.clubs, clubID)
	delete(m.owners, clubID)
	return nil
}

func (m *mockClubRepo) GetClubsForUser(ctx context.Context, userID string) ([]*model.Club, error) {
	var result []*model.Club
	for clubID, ownerID := range m.owners {
		if ownerID == userID {
			result = append(result, m.clubs[clubID])
		}
	}
	return result, nil
}

type mockAccessRepo struct {
	grants   map[string]string
	grantErr error
}

func newMockAccessRepo() *mockAccessRepo {
	return &mockAccessRepo{grants: make(map[string]string)}
}

func accessKey(clubID, userID string) string {
	return clubID + "|" + userID
}

func (m *mockAccessRepo) GrantCollaborator(ctx context.Context, clubID, userID string) error {
	if m.grantErr != nil {
		return m.grantErr
	}
	key := accessKey(clubID, userID)
	if _, ok := m.grants[key]; ok {
		return database.ErrDuplicate
	}
	m.grants[key] = string(model.ClubRelationCollaborator)
	return nil
}

func (m *mockAccessRepo) Revoke(ctx context.Context, clubID, userID string) error {
	delete(m.grants, accessKey(clubID, userID))
	return nil
}

func (m *mockAccessRepo) ListUsers(ctx context.Context, clubID string) ([]*model.User, error) {
	var result []*model.User
	prefix := clubID + "|"
	for key := range m.grants {
		if strings.HasPrefix(key, prefix) {
			result = append(result, &model.User{ID: strings.TrimPrefix(key, prefix)})
		}
	}
	return result, nil
}

type denyRequirements struct{}

func (denyRequirements) CanCreateClub(ctx context.Context, user *model.User) error {
	return ErrClubQuotaExceeded
}

func newTestClubService(clubRepo *mockClubRepo, accessRepo *mockAccessRepo, userRepo *mockUserRepo, req RequirementChecker) *ClubService {
	return NewClubService(ClubServiceConfig{
		ClubRepo:     clubRepo,
		AccessRepo:   accessRepo,
		UserRepo:     userRepo,
		Requirements: req,
	})
}

func TestCreateClub(t *testing.T) {
	clubRepo := newMockClubRepo()
	svc := newTestClubService(clubRepo, newMockAccessRepo(), newMockUserRepo(), nil)
	creator := &model.User{ID: "user:alice", Email: "alice@example.com"}

	club, err := svc.CreateClub(context.Background(), creator, "  Chess Club  ")
	if err != nil {
		t.Fatalf("CreateClub failed: %v", err)
	}
	if club.Name != "Chess Club" {
		t.Errorf("expected trimmed name, got %q", club.Name)
	}
	if clubRepo.owners[club.ID] != creator.ID {
		t.Error("creator was not recorded as owner")
	}
}

func TestCreateClubEmptyName(t *testing.T) {
	svc := newTestClubService(newMockClubRepo(), newMockAccessRepo(), newMockUserRepo(), nil)
	creator := &model.User{ID: "user:alice"}

	_, err := svc.CreateClub(context.Background(), creator, "   ")
	if !errors.Is(err, ErrClubNameRequired) {
		t.Errorf("expected ErrClubNameRequired, got %v", err)
	}
}

func TestCreateClubQuotaDenied(t *testing.T) {
	clubRepo := newMockClubRepo()
	svc := newTestClubService(clubRepo, newMockAccessRepo(), newMockUserRepo(), denyRequirements{})
	creator := &model.User{ID: "user:alice"}

	_, err := svc.CreateClub(context.Background(), creator, "Chess Club")
	if !errors.Is(err, ErrClubQuotaExceeded) {
		t.Errorf("expected ErrClubQuotaExceeded, got %v", err)
	}
	if len(clubRepo.clubs) != 0 {
		t.Error("no club may be created when the quota check fails")
	}
}

func TestUpdateClubNotFound(t *testing.T) {
	svc := newTestClubService(newMockClubRepo(), newMockAccessRepo(), newMockUserRepo(), nil)

	_, err := svc.UpdateClub(context.Background(), "club:missing", "New Name")
	if !errors.Is(err, ErrClubNotFound) {
		t.Errorf("expected ErrClubNotFound, got %v", err)
	}
}

func TestDeleteClubWithTournaments(t *testing.T) {
	clubRepo := newMockClubRepo()
	clubRepo.deleteErr = database.ErrConflict
	svc := newTestClubService(clubRepo, newMockAccessRepo(), newMockUserRepo(), nil)

	err := svc.DeleteClub(context.Background(), "club:1")
	if !errors.Is(err, ErrClubHasTournaments) {
		t.Errorf("expected ErrClubHasTournaments, got %v", err)
	}
}

func TestDeleteClubNotFound(t *testing.T) {
	svc := newTestClubService(newMockClubRepo(), newMockAccessRepo(), newMockUserRepo(), nil)

	err := svc.DeleteClub(context.Background(), "club:missing")
	if !errors.Is(err, ErrClubNotFound) {
		t.Errorf("expected ErrClubNotFound, got %v", err)
	}
}

func TestAddCollaborator(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.addUser("bob@example.com", "password99")
	accessRepo := newMockAccessRepo()
	svc := newTestClubService(newMockClubRepo(), accessRepo, userRepo, nil)

	got, err := svc.AddCollaborator(context.Background(), "club:1", "Bob@Example.com")
	if err != nil {
		t.Fatalf("AddCollaborator failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	if _, ok := accessRepo.grants[accessKey("club:1", user.ID)]; !ok {
		t.Error("grant was not recorded")
	}
}

func TestAddCollaboratorUnknownEmail(t *testing.T) {
	svc := newTestClubService(newMockClubRepo(), newMockAccessRepo(), newMockUserRepo(), nil)

	_, err := svc.AddCollaborator(context.Background(), "club:1", "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAddCollaboratorTwice(t *testing.T) {
	userRepo := newMockUserRepo()
	userRepo.addUser("bob@example.com", "password99")
	svc := newTestClubService(newMockClubRepo(), newMockAccessRepo(), userRepo, nil)

	if _, err := svc.AddCollaborator(context.Background(), "club:1", "bob@example.com"); err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	if _, err := svc.AddCollaborator(context.Background(), "club:1", "bob@example.com"); err != nil {
		t.Errorf("second grant must succeed, got %v", err)
	}
}

func TestRemoveCollaborator(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.addUser("bob@example.com", "password99")
	accessRepo := newMockAccessRepo()
	svc := newTestClubService(newMockClubRepo(), accessRepo, userRepo, nil)

	if _, err := svc.AddCollaborator(context.Background(), "club:1", "bob@example.com"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.RemoveCollaborator(context.Background(), "club:1", user.ID); err != nil {
		t.Fatalf("RemoveCollaborator failed: %v", err)
	}
	if _, ok := accessRepo.grants[accessKey("club:1", user.ID)]; ok {
		t.Error("grant was not revoked")
	}

	// revoking again is a no-op
	if err := svc.RemoveCollaborator(context.Background(), "club:1", user.ID); err != nil {
		t.Errorf("repeated revoke must succeed, got %v", err)
	}
}
