package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/db"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := openDB(cmd.Context(), cfg, newLogger(cfg))
		if err != nil {
			return err
		}
		defer d.Close()

		v, dirty, err := db.Version(d, dbfs.Migrations)
		if err != nil {
			return err
		}
		fmt.Printf("Database %s at schema version %d (dirty=%v)\n", cfg.DatabasePath, v, dirty)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup [dest]",
	Short: "Write a consistent copy of the database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dst := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			dst = args[0]
		}

		d, err := db.New(cmd.Context(), cfg.DatabasePath, newLogger(cfg))
		if err != nil {
			return err
		}
		defer d.Close()

		// VACUUM INTO refuses to overwrite
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("backup: %w", err)
		}
		if _, err := d.Exec(cmd.Context(), `VACUUM INTO ?`, dst); err != nil {
			return fmt.Errorf("backup: %w", err)
		}

		fmt.Printf("Database backup written to %s\n", dst)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [src]",
	Short: "Replace the database with a backup copy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			src = args[0]
		}

		if err := copyFile(src, cfg.DatabasePath); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		// stale journal files belong to the replaced database
		for _, suffix := range []string{"-wal", "-shm", "-journal"} {
			_ = os.Remove(cfg.DatabasePath + suffix)
		}

		slog.Info("database restored", slog.String("from", src), slog.String("to", cfg.DatabasePath))
		fmt.Println("Database restore completed.")
		return nil
	},
}

// copyFile writes src beside dst and renames it into place, so a failed copy
// leaves dst untouched.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
