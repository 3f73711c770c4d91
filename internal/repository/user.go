package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchkit/tourney/api/internal/database"
	"github.com/matchkit/tourney/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			email: $email,
			name: $name,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			is_superadmin: $is_superadmin,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	var hash interface{}
	if user.Hash != nil {
		hash = *user.Hash
	}

	vars := map[string]interface{}{
		"email":         user.Email,
		"name":          user.Name,
		"hash":          hash,
		"is_superadmin": user.IsSuperadmin,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	records := unwrapStatementResult(firstOrNil(result))
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created, err := parseUserData(records[0])
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserData(result)
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserData(result)
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	query := `UPDATE type::record($id) SET hash = $hash, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   userID,
		"hash": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// parseUserData converts a SurrealDB row into a User
func parseUserData(result interface{}) (*model.User, error) {
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	user := &model.User{
		ID:           convertSurrealID(data["id"]),
		Email:        getString(data, "email"),
		Name:         getString(data, "name"),
		IsSuperadmin: getBool(data, "is_superadmin"),
		CreatedOn:    parseTime(data["created_on"]),
		UpdatedOn:    parseTime(data["updated_on"]),
	}

	if h, ok := data["hash"].(string); ok && h != "" {
		user.Hash = &h
	}

	return user, nil
}

// firstOrNil returns the first element of a Query response
func firstOrNil(result []interface{}) interface{} {
	if len(result) == 0 {
		return nil
	}
	return result[0]
}
