// Package testutil provides shared helpers for integration tests. Helpers
// skip when TEST_DATABASE_URL is not set so unit runs need no database.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Voyara_APP_BackEnd/migrations"
)

const dsnEnv = "TEST_DATABASE_URL"

// NewDB connects to the test database, applies migrations and closes the
// connection when the test finishes.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skip(dsnEnv + " not set; skipping integration test")
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewDB: connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := migrations.Up(context.Background(), db.DB); err != nil {
		t.Fatalf("testutil.NewDB: %v", err)
	}
	return db
}

// CreateUser inserts a throwaway user and removes it (and everything that
// cascades from it) after the test.
func CreateUser(t *testing.T, db *sqlx.DB) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	const query = `
		INSERT INTO users (email, provider, provider_subject)
		VALUES ('', 'test', gen_random_uuid()::text)
		RETURNING id
	`
	if err := db.GetContext(context.Background(), &id, query); err != nil {
		t.Fatalf("testutil.CreateUser: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}
