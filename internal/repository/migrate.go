package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/repository/migrations"
)

// Migrator runs the embedded schema migrations against the configured engine.
type Migrator struct {
	*migrate.Migrate
	close func() error
}

// NewMigrator opens the session store and prepares its migrations.
func NewMigrator(ctx context.Context, cfg *config.SessionConfig) (*Migrator, error) {
	conn, err := newConnector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := conn.open(ctx)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	switch conn.engine {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, conn.engine)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, conn.engine, driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return &Migrator{Migrate: m, close: db.Close}, nil
}

// Close releases the migration source and the database connection.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.Migrate.Close()
	return errors.Join(srcErr, dbErr, m.close())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, cfg *config.SessionConfig) error {
	m, err := NewMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
