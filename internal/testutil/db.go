// Package testutil provides the database fixture shared by store-backed tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyHubAPI/internal/database"
)

// SetupTestDB connects to TEST_DATABASE_URL and applies the schema. The test is
// skipped when the variable is unset. The pool is closed on cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("Failed to ping test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_, err := pool.Exec(ctx, `DELETE FROM focus_sessions WHERE user_id IN
			(SELECT id FROM users WHERE email LIKE 'test%@example.com')`)
		if err == nil {
			_, err = pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
		}
		if err != nil {
			t.Logf("Warning: failed to cleanup test data: %v", err)
		}
		pool.Close()
	})
	return pool
}

var seq atomic.Int64

// UniqueEmail returns an address matched by the cleanup in SetupTestDB.
func UniqueEmail() string {
	return fmt.Sprintf("test%d_%d@example.com", time.Now().UnixNano(), seq.Add(1))
}

// CreateUser inserts a user directly and returns its id.
func CreateUser(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (name, email, password) VALUES ($1, $2, 'x') RETURNING id`,
		name, UniqueEmail()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return id
}
