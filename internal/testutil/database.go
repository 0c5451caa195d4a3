package testutil

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/repository/sqlite"
)

// NewTestDB opens a temp-file SQLite database with all migrations applied.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "jobboard.db")
	d, err := db.New(context.Background(), dsn, nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := db.Migrate(d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("failed to migrate db: %v", err)
	}

	t.Cleanup(func() {
		d.Close()
	})

	return d
}

// NewTestRepo returns a SQLite repository over a fresh migrated database.
func NewTestRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	return sqlite.New(NewTestDB(t), nil)
}
