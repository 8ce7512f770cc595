package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"authapi/internal/db"
	"authapi/internal/db/migrations"
	"authapi/internal/routes"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Create the database if needed, apply pending migrations and serve
the auth API until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL, logger); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure database exists")
		return oops.Code("DB_CREATE_FAILED").Wrap(err)
	}

	database, err := db.New(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(ctx, database.DB, logger); err != nil {
		logger.Error().Err(err).Msg("Failed to run migrations")
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(database.DB, cfg, logger, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("Server failed")
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info().Msg("Server exiting")
	return nil
}
