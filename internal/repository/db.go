package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"invoiceinsight/internal/config"
)

// Supported session store engines.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// connector knows how to open a fresh connection to one configured engine.
type connector struct {
	engine     string
	driverName string
	dsn        string
}

func newConnector(cfg *config.SessionConfig) (*connector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("session store: sqlite path is required")
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("session store: creating %s: %w", dir, err)
			}
		}
		return &connector{
			engine:     DriverSQLite,
			driverName: "sqlite",
			dsn:        cfg.Path + "?_pragma=busy_timeout(5000)",
		}, nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("session store: postgres dsn is required")
		}
		return &connector{engine: DriverPostgres, driverName: "pgx", dsn: cfg.DSN}, nil
	default:
		return nil, fmt.Errorf("session store: unknown driver %q", cfg.Driver)
	}
}

// open returns a single-connection handle; callers close it when done.
func (c *connector) open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, c.driverName, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.engine, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
