package db_test

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, filepath.Join(t.TempDir(), "migrate.db"), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if v, dirty, err := db.Version(d, dbfs.Migrations); err != nil || v != 0 || dirty {
		t.Fatalf("fresh db: version=%d dirty=%v err=%v", v, dirty, err)
	}

	if err := db.Migrate(d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Migrate(d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	v, dirty, err := db.Version(d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v < 1 || dirty {
		t.Fatalf("expected a clean applied version, got %d dirty=%v", v, dirty)
	}

	for _, table := range []string{"companies", "users", "jobs", "job_applications"} {
		var name string
		row := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}
}
