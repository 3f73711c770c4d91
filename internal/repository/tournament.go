package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

// TournamentRepository handles tournament data access
type TournamentRepository struct {
	db database.Database
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db database.Database) *TournamentRepository {
	return &TournamentRepository{db: db}
}

// Create creates a new tournament under a club
func (r *TournamentRepository) Create(ctx context.Context, t *model.Tournament) error {
	query := `
		CREATE tournament CONTENT {
			club: type::record($club_id),
			name: $name,
			endpoint_name: $endpoint_name,
			players_only: $players_only,
			created: time::now()
		}
	`
	vars := map[string]interface{}{
		"club_id":       t.ClubID,
		"name":          t.Name,
		"endpoint_name": t.EndpointSlug,
		"players_only":  t.PlayersOnly,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: endpoint name already exists", database.ErrDuplicate)
		}
		return err
	}

	records := unwrapStatementResult(firstOrNil(result))
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created, err := parseTournamentData(records[0])
	if err != nil {
		return err
	}

	t.ID = created.ID
	t.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves a tournament by ID. Returns (nil, nil) when absent.
func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*model.Tournament, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTournamentData(result)
}

// GetBySlug retrieves a tournament by its public endpoint slug.
// Returns (nil, nil) when absent.
func (r *TournamentRepository) GetBySlug(ctx context.Context, slug string) (*model.Tournament, error) {
	query := `SELECT * FROM tournament WHERE endpoint_name = $endpoint_name LIMIT 1`
	vars := map[string]interface{}{"endpoint_name": slug}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTournamentData(result)
}

// ListForClub retrieves all tournaments owned by a club
func (r *TournamentRepository) ListForClub(ctx context.Context, clubID string) ([]*model.Tournament, error) {
	query := `SELECT * FROM tournament WHERE club = type::record($club_id)`
	vars := map[string]interface{}{"club_id": clubID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.Tournament{}, nil
	}

	tournaments := make([]*model.Tournament, 0, len(rows))
	for _, row := range rows {
		t, err := parseTournamentData(row)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tournaments = append(tournaments, t)
		}
	}
	return tournaments, nil
}

// parseTournamentData converts a SurrealDB row into a Tournament
func parseTournamentData(result interface{}) (*model.Tournament, error) {
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return &model.Tournament{
		ID:           convertSurrealID(data["id"]),
		ClubID:       convertSurrealID(data["club"]),
		Name:         getString(data, "name"),
		EndpointSlug: getString(data, "endpoint_name"),
		PlayersOnly:  getBool(data, "players_only"),
		CreatedOn:    parseTime(data["created"]),
	}, nil
}
