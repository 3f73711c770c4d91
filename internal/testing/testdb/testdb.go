// Package testdb provides isolated SurrealDB environments for acceptance
// tests. Each TestDB gets its own namespace with the schema applied, so
// tests exercise real constraints and indexes rather than mocks.
//
// Tests that use this package need a running SurrealDB instance:
//
//	surreal start memory -A --user root --pass root
//
// Connection details come from the environment:
//
//	TEST_DB_HOST     - SurrealDB host (default: localhost)
//	TEST_DB_PORT     - SurrealDB port (default: 8000)
//	TEST_DB_USER     - SurrealDB username (default: root)
//	TEST_DB_PASSWORD - SurrealDB password (default: root)
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matchkit/tourney/api/internal/database"
)

// TestDB is an isolated database environment. The namespace is unique per
// instance; Close removes it.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var (
	schemaOnce sync.Once
	schema     []string
	schemaErr  error

	counterMu sync.Mutex
	counter   int64
)

func testConfig() database.Config {
	cfg := database.Config{
		Host:     "localhost",
		Port:     "8000",
		User:     "root",
		Password: "root",
	}
	if v := os.Getenv("TEST_DB_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("TEST_DB_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TEST_DB_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("TEST_DB_PASSWORD"); v != "" {
		cfg.Password = v
	}
	return cfg
}

func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// loadSchema reads the migration files once, in lexical order. The lookup
// walks upward so tests can run from any package directory.
func loadSchema() ([]string, error) {
	schemaOnce.Do(func() {
		var dir string
		for _, p := range []string{
			"migrations",
			"../migrations",
			"../../migrations",
			"../../../migrations",
		} {
			if _, err := os.Stat(p); err == nil {
				dir = p
				break
			}
		}
		if dir == "" {
			if root := os.Getenv("TOURNEY_ROOT"); root != "" {
				dir = filepath.Join(root, "migrations")
			}
		}
		if dir == "" {
			schemaErr = fmt.Errorf("could not find migrations directory")
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			schemaErr = fmt.Errorf("reading migrations dir: %w", err)
			return
		}

		var files []string
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".surql") {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)

		for _, name := range files {
			content, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				schemaErr = fmt.Errorf("reading %s: %w", name, err)
				return
			}
			schema = append(schema, string(content))
		}
	})

	return schema, schemaErr
}

// New connects to the test database under a fresh namespace and applies the
// schema. Call Close when done.
func New(t *testing.T) *TestDB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := testConfig()
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}

	stmts, err := loadSchema()
	if err != nil {
		db.Close()
		t.Fatalf("testdb: failed to load schema: %v", err)
	}
	for i, stmt := range stmts {
		if err := db.Execute(ctx, stmt, nil); err != nil {
			db.Close()
			t.Fatalf("testdb: migration %d failed: %v", i+1, err)
		}
	}

	return tdb
}

// Close drops the test namespace and closes the connection.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	tdb.DB.Close()
}

// Ctx returns a context with a timeout suitable for a single test operation.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = cancel
	return ctx
}

// MustExec executes a statement and fails the test on error.
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// MustQuery executes a query and returns the raw results, failing the test
// on error.
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return results
}
