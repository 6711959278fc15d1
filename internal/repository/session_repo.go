package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/port"
)

var upsertQueries = map[string]string{
	DriverSQLite:   `INSERT OR REPLACE INTO sessions (session_id, data) VALUES (?, ?)`,
	DriverPostgres: `INSERT INTO sessions (session_id, data) VALUES (?, ?) ON CONFLICT (session_id) DO UPDATE SET data = EXCLUDED.data`,
}

// sessionRepo stores each session as one JSON blob. Every call opens its own
// connection and transaction and closes both before returning. Concurrent
// load-modify-save cycles on the same id are last-writer-wins.
type sessionRepo struct {
	conn   *connector
	logger *zap.Logger
}

// NewSessionRepo creates a SessionStore for the configured engine.
func NewSessionRepo(cfg *config.SessionConfig, logger *zap.Logger) (port.SessionStore, error) {
	conn, err := newConnector(cfg)
	if err != nil {
		return nil, err
	}
	return &sessionRepo{conn: conn, logger: logger}, nil
}

func (r *sessionRepo) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	var data string
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &data, tx.Rebind(`SELECT data FROM sessions WHERE session_id = ?`), sessionID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.Load: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("sessionRepo.Load: decoding session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (r *sessionRepo) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("sessionRepo.Save: encoding session %s: %w", sessionID, err)
	}

	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(upsertQueries[r.conn.engine]), sessionID, string(data))
		return err
	})
	if err != nil {
		return fmt.Errorf("sessionRepo.Save: %w", err)
	}
	r.logger.Debug("sessionRepo.Save: session stored",
		zap.String("session_id", sessionID),
		zap.Int("bytes", len(data)),
		zap.Int("turns", len(state.History)),
	)
	return nil
}

func (r *sessionRepo) Ping(ctx context.Context) error {
	db, err := r.conn.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}

// inTx runs fn in a transaction on a connection that lives only for this call.
func (r *sessionRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := r.conn.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
