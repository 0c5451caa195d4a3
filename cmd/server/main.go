package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garnizeh/jobboard/api"
	dbfs "github.com/garnizeh/jobboard/db"
	"github.com/garnizeh/jobboard/internal/blob"
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/monitor"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "jobboard",
	Short:        "Job board API server",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine; the environment may already be set
		_ = godotenv.Load()
	},
}

// loadConfig reads and validates the configuration for any subcommand.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// openDB opens the database and brings the schema up to date.
func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	d, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(d, dbfs.Migrations); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		slog.SetDefault(logger)
		api.SetLogger(logger)

		logger.Info("starting jobboard", slog.String("version", version), slog.String("build_time", buildTime), slog.String("env", cfg.Env))

		rep, err := monitor.New(monitor.Options{DSN: cfg.SentryDSN, Environment: cfg.Env, Release: version})
		if err != nil {
			return err
		}
		if rep != nil {
			api.SetErrorReporter(rep)
			defer rep.Flush(2 * time.Second)
			logger.Info("error monitoring enabled")
		} else {
			logger.Warn("sentry dsn not configured; error monitoring disabled")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := openDB(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Close(); err != nil {
				logger.Error("error closing db", slog.Any("err", err))
			}
		}()

		blobs, err := blob.NewStoreFromConfig(ctx, cfg.Blob)
		if err != nil {
			return fmt.Errorf("blob store: %w", err)
		}

		handler, err := api.SetupRoutes(cfg, version, buildTime, d, blobs)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.APITimeout,
			WriteTimeout: cfg.APITimeout,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", slog.String("addr", cfg.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down server")

		// Give outstanding requests 30 seconds to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("server exited")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobboard %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config YAML file")

	// bare invocation serves
	rootCmd.RunE = serveCmd.RunE

	dbCmd.AddCommand(migrateCmd, backupCmd, restoreCmd)
	rootCmd.AddCommand(serveCmd, dbCmd, versionCmd)
}
