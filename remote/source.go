// Package remote is the client for the hosted backend holding the
// authoritative cloud copies of profiles, announcements and user roles.
// It owns nothing beyond reads, counts and the moderation writes; merging
// with local data happens in mergeview.
package remote

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/config"
)

// Source wraps the remote database connection. All methods are context-first
// and fail independently of local data availability.
type Source struct {
	db  *sql.DB
	log *zap.Logger
}

// Open connects to the remote database and verifies the connection.
func Open(cfg *config.DatabaseConfig, log *zap.Logger) (*Source, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping remote database: %w", err)
	}

	log.Info("connected to remote source",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)
	return &Source{db: db, log: log}, nil
}

// openDSN connects with a raw connection string. Used by the integration tests.
func openDSN(dsn string) (*Source, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping remote database: %w", err)
	}
	return &Source{db: db, log: zap.NewNop()}, nil
}

// NewSource wraps an existing connection. Used by tests that manage their own.
func NewSource(db *sql.DB, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{db: db, log: log}
}

// Close closes the underlying connection.
func (s *Source) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close remote database: %w", err)
	}
	return nil
}
