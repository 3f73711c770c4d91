package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

// ClubAccessRepository persists the many-to-many ownership/collaboration
// relation between users and clubs. Tournament access is derived from it.
type ClubAccessRepository struct {
	db database.Database
}

// NewClubAccessRepository creates a new club access repository
func NewClubAccessRepository(db database.Database) *ClubAccessRepository {
	return &ClubAccessRepository{db: db}
}

// GrantOwner inserts an OWNER relation. Club creation calls this inside the
// same transaction that creates the club row; it exists separately for
// completeness of the relation API.
func (r *ClubAccessRepository) GrantOwner(ctx context.Context, clubID, userID string) error {
	return r.grant(ctx, clubID, userID, model.ClubRelationOwner)
}

// GrantCollaborator inserts a COLLABORATOR relation. A second grant for the
// same (club, user) pair surfaces database.ErrDuplicate; the uniqueness
// constraint decides the loser of a concurrent race.
func (r *ClubAccessRepository) GrantCollaborator(ctx context.Context, clubID, userID string) error {
	return r.grant(ctx, clubID, userID, model.ClubRelationCollaborator)
}

func (r *ClubAccessRepository) grant(ctx context.Context, clubID, userID string, relation model.ClubRelation) error {
	if !relation.IsValid() {
		return fmt.Errorf("unknown club relation %q", relation)
	}

	query := `
		CREATE club_access SET
			club = type::record($club_id),
			user = type::record($user_id),
			relation = $relation
	`
	vars := map[string]interface{}{
		"club_id":  clubID,
		"user_id":  userID,
		"relation": string(relation),
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: access relation already exists", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Revoke deletes any relation for the (club, user) pair. Succeeds even if
// no relation existed.
func (r *ClubAccessRepository) Revoke(ctx context.Context, clubID, userID string) error {
	query := `DELETE club_access WHERE club = type::record($club_id) AND user = type::record($user_id)`
	vars := map[string]interface{}{
		"club_id": clubID,
		"user_id": userID,
	}

	return r.db.Execute(ctx, query, vars)
}

// HasClubAccess reports whether the user holds any relation to the club
func (r *ClubAccessRepository) HasClubAccess(ctx context.Context, clubID, userID string) (bool, error) {
	query := `
		SELECT count() AS count FROM club_access
		WHERE club = type::record($club_id) AND user = type::record($user_id)
		GROUP ALL
	`
	vars := map[string]interface{}{
		"club_id": clubID,
		"user_id": userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return extractCountValue(data["count"]) > 0, nil
	}
	return false, nil
}

// HasTournamentAccess reports whether the user holds a relation to the
// tournament's owning club. Returns false when the tournament does not
// exist.
func (r *ClubAccessRepository) HasTournamentAccess(ctx context.Context, tournamentID, userID string) (bool, error) {
	query := `SELECT VALUE club FROM ONLY type::record($id)`
	vars := map[string]interface{}{"id": tournamentID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if result == nil {
		return false, nil
	}

	clubID := convertSurrealID(result)
	if clubID == "" {
		return false, nil
	}

	return r.HasClubAccess(ctx, clubID, userID)
}

// ListUsers returns every user holding any relation to the club
func (r *ClubAccessRepository) ListUsers(ctx context.Context, clubID string) ([]*model.User, error) {
	query := `SELECT VALUE user.* FROM club_access WHERE club = type::record($club_id)`
	vars := map[string]interface{}{"club_id": clubID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.User{}, nil
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		user, err := parseUserData(row)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}
