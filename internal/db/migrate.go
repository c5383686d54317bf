package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	migrationsDir   = "migrations"
	migrationsTable = "schema_migrations"
)

// Direction selects which way Migrate moves the schema
type Direction string

// Migration directions
const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate applies (Up) or rolls back one (Down) embedded migration
func Migrate(ctx context.Context, databaseURL string, dir Direction) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations)
	goose.SetTableName(migrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch dir {
	case Up:
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case Down:
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", dir, err)
	}
	return nil
}

// MigrationFiles lists the embedded migration filenames in order
func MigrationFiles() ([]string, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
