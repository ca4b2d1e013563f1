package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/boolmaze-server/internal/config"
)

//go:embed migrations
var migrations embed.FS

func Connect(ctx context.Context, records *config.Records) (*pgxpool.Pool, error) {
	cfg, err := records.PgxpoolConfig()
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

func newMigrator(dir, url string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations/"+dir)
	if err != nil {
		return nil, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create migrator: %w", err)
	}
	return migrator, nil
}

// migrateUp applies the migrations in dir. The migrator is closed unless it
// is returned.
func migrateUp(dir, url string) (*migrate.Migrate, error) {
	migrator, err := newMigrator(dir, url)
	if err != nil {
		return nil, err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		migrator.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return migrator, nil
}

// Migrate applies the Postgres migrations to the database at url.
func Migrate(url string) (*migrate.Migrate, error) {
	return migrateUp("postgres", url)
}

func ConnectAndMigrate(ctx context.Context, records *config.Records) (*pgxpool.Pool, *migrate.Migrate, error) {
	migrator, err := Migrate(records.URL)
	if err != nil {
		return nil, nil, err
	}
	conn, err := Connect(ctx, records)
	if err != nil {
		migrator.Close()
		return nil, nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		migrator.Close()
		return nil, nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return conn, migrator, nil
}

// OpenSQLite migrates the SQLite file at path and opens it.
func OpenSQLite(path string) (*sql.DB, error) {
	migrator, err := migrateUp("sqlite", "sqlite3://"+path)
	if err != nil {
		return nil, err
	}
	migrator.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	return db, nil
}
