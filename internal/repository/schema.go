// filepath: internal/repository/schema.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"photovault/internal/db/migrations"
	"photovault/internal/logging"

	"github.com/pressly/goose/v3"
)

func configureGoose() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// EnsureSchemaBootstrapped migrates a brand new database to the latest version.
// Databases that already carry a goose version table are left alone so that
// upgrades stay an explicit 'migrate up'.
func (s *Repository) EnsureSchemaBootstrapped() error {
	var name string
	err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='goose_db_version'").Scan(&name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	logging.Log.Info("Fresh database detected, applying migrations...")
	if err := configureGoose(); err != nil {
		return err
	}
	if err := goose.Up(s.DB, "."); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}

// ValidateSchema fails when the database is behind the embedded migrations.
func (s *Repository) ValidateSchema() error {
	if err := configureGoose(); err != nil {
		return err
	}
	current, err := goose.GetDBVersion(s.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	all, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := all.Last()
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	if current < last.Version {
		return fmt.Errorf("database schema is outdated (version %d, expected %d); run 'photovault migrate up'", current, last.Version)
	}
	return nil
}

// Migrate runs a goose command ("up", "down", "status") against the catalog.
func (s *Repository) Migrate(command string) error {
	if err := configureGoose(); err != nil {
		return err
	}
	switch command {
	case "up":
		return goose.Up(s.DB, ".")
	case "down":
		return goose.Down(s.DB, ".")
	case "status":
		return goose.Status(s.DB, ".")
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
