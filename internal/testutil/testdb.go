package testutil

import (
	"context"
	"testing"

	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	if err := db.Migrate(ctx, database.DB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *db.DB) db.UnitOfWork {
	return db.NewUnitOfWork(database.DB)
}
