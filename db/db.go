// Package db embeds the goose migrations for every supported driver.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

const VersionTable = "schema_migrations"

// DriverName maps a configured driver to its database/sql driver name.
func DriverName(driver string) string {
	switch driver {
	case "postgres":
		return "pgx"
	default:
		return "sqlite3"
	}
}

func dialect(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Dir returns the embedded migration directory for driver.
func Dir(driver string) string {
	if driver == "postgres" {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// Run executes a goose command ("up", "down", "status", ...) against the
// embedded migrations. A non-empty dir reads from disk instead.
func Run(ctx context.Context, sqlDB *sql.DB, driver, command, dir string) error {
	if dir == "" {
		goose.SetBaseFS(migrations)
		dir = Dir(driver)
	} else {
		goose.SetBaseFS(nil)
	}

	if err := goose.SetDialect(dialect(driver)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetTableName(VersionTable)

	if err := goose.RunContext(ctx, command, sqlDB, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
