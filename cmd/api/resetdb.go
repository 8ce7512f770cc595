package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"authapi/internal/db"
)

// NewResetDBCmd creates the reset-db subcommand.
func NewResetDBCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset-db",
		Short: "Drop the configured database",
		Long: `Drop the database named in DATABASE_URL. The next serve or migrate
recreates it from the migrations. Requires --force.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return oops.Code("CONFIRMATION_REQUIRED").Errorf("refusing to drop the database without --force")
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := db.DropDatabase(cfg.DatabaseURL, logger); err != nil {
				return oops.Code("DB_DROP_FAILED").With("operation", "drop database").Wrap(err)
			}

			cmd.Println("Database dropped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm dropping the database")
	return cmd
}
