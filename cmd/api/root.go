package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"authapi/internal/config"
	"authapi/internal/logging"
)

// NewRootCmd creates the root command. Running it without a subcommand starts
// the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "authapi",
		Short:        "User registration and authentication API",
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewResetDBCmd())

	return cmd
}

// loadConfig reads and validates configuration and builds the process logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		return nil, logger, err
	}
	return cfg, logger, nil
}
