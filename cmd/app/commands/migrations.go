package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationSource maps the database driver to its migration directory and the database URL
// golang-migrate expects. MySQL DSNs gain the mysql:// scheme the migrate driver needs.
func migrationSource(dbDriver, connectionString string) (sourceURL, databaseURL string) {
	if dbDriver == "mysql" {
		databaseURL = connectionString
		if !strings.HasPrefix(databaseURL, "mysql://") {
			databaseURL = "mysql://" + databaseURL
		}
		return "file://migrations/mysql", databaseURL
	}
	return "file://migrations/postgresql", connectionString
}

// RunMigrations applies all pending migrations for the configured driver. Returns nil when
// the schema is already up to date.
func RunMigrations(logger *slog.Logger, dbDriver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", dbDriver))

	sourceURL, databaseURL := migrationSource(dbDriver, connectionString)

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
