package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/heliomed/nearbycare/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	driverName := "pgx"
	if cfg.IsMemory() {
		driverName = "sqlite3"
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending migrations found under root on the open connection.
// Driver instances are used so in-memory SQLite keeps its shared cache.
func Migrate(db *sqlx.DB, cfg config.DBConfig, root string) error {
	var (
		m   *migrate.Migrate
		err error
	)

	if cfg.IsMemory() {
		driver, derr := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if derr != nil {
			return fmt.Errorf("could not create sqlite driver: %w", derr)
		}
		m, err = migrate.NewWithDatabaseInstance(cfg.MigrationsPath(root), "sqlite3", driver)
	} else {
		driver, derr := postgres.WithInstance(db.DB, &postgres.Config{})
		if derr != nil {
			return fmt.Errorf("could not create postgres driver: %w", derr)
		}
		m, err = migrate.NewWithDatabaseInstance(cfg.MigrationsPath(root), "postgres", driver)
	}
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
