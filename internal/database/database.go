// Package database provides the database abstraction layer for Tourney.
//
// This package defines the Database interface that abstracts SurrealDB
// operations, keeping business logic separate from data access.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// # Transaction Support
//
// IMPORTANT: Transactions here are BATCH-BASED, not connection-level.
// Statements accumulate in a TxBuilder and are wrapped in BEGIN TRANSACTION /
// COMMIT TRANSACTION, executing atomically as one unit in a single round
// trip. Club creation relies on this to guarantee that a club row and its
// OWNER relation appear together or not at all; club deletion runs its
// tournament guard inside the same unit. See transaction.go.
//
// # Error Handling
//
// Standard errors are defined for common failure cases and checked with
// errors.Is():
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation
	// (e.g., a second access relation for the same club and user).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConflict indicates a referential constraint violation
	// (e.g., deleting a club that still owns tournaments).
	ErrConflict = errors.New("constraint conflict")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
