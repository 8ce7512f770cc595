package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"authapi/internal/db"
	"authapi/internal/db/migrations"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Create the database if needed and apply all pending migrations.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL, logger); err != nil {
		return oops.Code("DB_CREATE_FAILED").With("operation", "create database").Wrap(err)
	}

	database, err := db.New(cfg.DatabaseURL, logger)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer database.Close()

	if err := migrations.RunMigrations(cmd.Context(), database.DB, logger); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
