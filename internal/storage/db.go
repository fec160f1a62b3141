// Package storage implements the bot's embedded SQLite store: the
// per-(user, guild) profile table, the append-only analysis and duel
// history tables, the composite write transactions that keep the two in
// sync, and the guild-scoped ranking queries.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoPath is returned by Open when no database path was configured.
// This is a programming error in the caller; it must not be retried.
var ErrNoPath = errors.New("storage: database path not configured")

// Store represents the bot database with transaction helpers.
//
// A Store is safe for concurrent use. SQLite's busy_timeout plus a
// single writer connection serialize conflicting writers; the store
// adds no locking of its own.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the SQLite database at the given path, creating
// the parent directory if necessary. The schema is not touched here;
// call EnsureSchema before serving traffic.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, ErrNoPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set pragmas for reliability under concurrent short transactions
	pragmas := []string{
		"PRAGMA journal_mode=WAL",    // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL",  // Balance between safety and performance
		"PRAGMA foreign_keys=ON",     // Enable foreign key constraints
		"PRAGMA busy_timeout=15000",  // Wait up to 15 seconds on lock
		"PRAGMA temp_store=MEMORY",   // Use memory for temp tables
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	// SQLite performs best with a single writer connection.
	conn.SetMaxOpenConns(1)

	return &Store{
		conn:   conn,
		logger: logger,
		dbPath: path,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back and
// none of its writes are visible to subsequent readers. Otherwise the
// transaction is committed.
func (s *Store) WithTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // Re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction",
				"error", err, "rollbackError", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exec executes a query without returning rows.
func (s *Store) Exec(query string, args ...any) (sql.Result, error) {
	return s.conn.Exec(query, args...)
}

// Query executes a query that returns rows.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row.
func (s *Store) QueryRow(query string, args ...any) *sql.Row {
	return s.conn.QueryRow(query, args...)
}
