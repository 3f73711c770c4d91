package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

// ClubRepository handles club data access
type ClubRepository struct {
	db database.Database
}

// NewClubRepository creates a new club repository
func NewClubRepository(db database.Database) *ClubRepository {
	return &ClubRepository{db: db}
}

// CreateWithOwner creates a club and its first OWNER relation as one atomic
// unit. If the relation insert fails, the club row is never observable.
func (r *ClubRepository) CreateWithOwner(ctx context.Context, name, ownerID string) (*model.Club, error) {
	tb := database.NewTxBuilder()
	tb.Add(`LET $club = (CREATE ONLY club SET name = $name, created = time::now())`,
		map[string]interface{}{"name": name})
	tb.Add(`CREATE club_access SET club = $club.id, user = type::record($user_id), relation = 'OWNER'`,
		map[string]interface{}{"user_id": ownerID})
	tb.AddRaw(`RETURN $club`)

	results, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: access relation already exists", database.ErrDuplicate)
		}
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.New("club creation returned no result")
	}

	// The trailing RETURN statement carries the created club.
	records := unwrapStatementResult(results[len(results)-1])
	if len(records) == 0 {
		return nil, errors.New("club creation returned no result")
	}

	return parseClubData(records[0])
}

// GetByID retrieves a club by ID. Returns (nil, nil) when absent.
func (r *ClubRepository) GetByID(ctx context.Context, id string) (*model.Club, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseClubData(result)
}

// Update renames a club and returns the updated row. Returns (nil, nil)
// when the club does not exist.
func (r *ClubRepository) Update(ctx context.Context, clubID, name string) (*model.Club, error) {
	query := `UPDATE type::record($id) SET name = $name RETURN AFTER`
	vars := map[string]interface{}{
		"id":   clubID,
		"name": name,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseClubData(result)
}

// Delete removes a club and its access relations. A club that still owns
// tournaments cannot be deleted; the attempt surfaces database.ErrConflict,
// mirroring the referential constraint between tournaments and clubs.
// The tournament check runs inside the same transaction as the deletes, so
// a tournament created concurrently either blocks the delete or lands
// after the club is gone, never both.
func (r *ClubRepository) Delete(ctx context.Context, clubID string) error {
	tb := database.NewTxBuilder()
	tb.Add(`
		IF array::len((SELECT VALUE id FROM tournament WHERE club = type::record($club_id))) > 0 {
			THROW 'club still owns tournaments'
		}
	`, map[string]interface{}{"club_id": clubID})
	tb.Add(`DELETE club_access WHERE club = type::record($club_id)`,
		map[string]interface{}{"club_id": clubID})
	tb.Add(`DELETE type::record($club_id)`,
		map[string]interface{}{"club_id": clubID})

	if _, err := database.ExecuteTransaction(ctx, r.db, tb); err != nil {
		if strings.Contains(err.Error(), "still owns tournaments") {
			return fmt.Errorf("%w: club still owns tournaments", database.ErrConflict)
		}
		return err
	}
	return nil
}

// GetClubsForUser retrieves all clubs a user holds any relation to
func (r *ClubRepository) GetClubsForUser(ctx context.Context, userID string) ([]*model.Club, error) {
	query := `SELECT VALUE club.* FROM club_access WHERE user = type::record($user_id)`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Club{}, nil
	}

	clubs := make([]*model.Club, 0, len(rows))
	for _, row := range rows {
		club, err := parseClubData(row)
		if err != nil {
			return nil, err
		}
		if club != nil {
			clubs = append(clubs, club)
		}
	}
	return clubs, nil
}

// parseClubData converts a SurrealDB row into a Club
func parseClubData(result interface{}) (*model.Club, error) {
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return &model.Club{
		ID:        convertSurrealID(data["id"]),
		Name:      getString(data, "name"),
		CreatedOn: parseTime(data["created"]),
	}, nil
}
