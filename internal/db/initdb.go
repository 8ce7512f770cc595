package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// CreateDatabaseIfNotExists creates the database if it doesn't exist
func CreateDatabaseIfNotExists(connString string, logger zerolog.Logger) error {
	dbName, root, err := openRoot(connString)
	if err != nil {
		return err
	}
	defer root.Close()

	var exists bool
	err = root.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		logger.Info().Str("database", dbName).Msg("Creating database")
		if _, err = root.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		logger.Info().Str("database", dbName).Msg("Database created")
	}

	return nil
}

// DropDatabase removes the database named in connString. It is the
// counterpart of CreateDatabaseIfNotExists used by the reset-db command.
func DropDatabase(connString string, logger zerolog.Logger) error {
	dbName, root, err := openRoot(connString)
	if err != nil {
		return err
	}
	defer root.Close()

	if _, err := root.Exec("DROP DATABASE IF EXISTS " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	logger.Info().Str("database", dbName).Msg("Database dropped")
	return nil
}

// openRoot connects to the maintenance 'postgres' database of the server
// named in connString and returns the target database name.
func openRoot(connString string) (string, *sql.DB, error) {
	dbName, err := extractDBName(connString)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	rootConnStr, err := replaceDBName(connString, "postgres")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create root connection string: %w", err)
	}

	root, err := sql.Open("postgres", rootConnStr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return dbName, root, nil
}

// extractDBName extracts the database name from a PostgreSQL connection string
func extractDBName(connString string) (string, error) {
	if isURL(connString) {
		u, err := url.Parse(connString)
		if err != nil {
			return "", fmt.Errorf("failed to parse connection URL: %w", err)
		}
		name := strings.TrimPrefix(u.Path, "/")
		if name == "" {
			return "", fmt.Errorf("could not find database name in connection string")
		}
		return name, nil
	}

	for _, pair := range strings.Fields(connString) {
		if strings.HasPrefix(pair, "dbname=") {
			return strings.TrimPrefix(pair, "dbname="), nil
		}
	}

	return "", fmt.Errorf("could not find database name in connection string")
}

// replaceDBName replaces the database name in a connection string
func replaceDBName(connString, newName string) (string, error) {
	if isURL(connString) {
		u, err := url.Parse(connString)
		if err != nil {
			return "", err
		}
		u.Path = "/" + newName
		return u.String(), nil
	}

	var result []string
	for _, pair := range strings.Fields(connString) {
		if strings.HasPrefix(pair, "dbname=") {
			result = append(result, "dbname="+newName)
		} else {
			result = append(result, pair)
		}
	}
	return strings.Join(result, " "), nil
}

func isURL(connString string) bool {
	return strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://")
}
