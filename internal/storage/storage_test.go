package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"primatebot/internal/logging"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bot.db")
	store, err := Open(path, logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return store
}

func countRows(t *testing.T, store *Store, query string, args ...any) int {
	t.Helper()
	var n int
	if err := store.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bot.db")
	store, err := Open(path, logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Open with missing parent directory failed: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
}

func TestOpenWithoutPathFails(t *testing.T) {
	_, err := Open("", logging.NewDiscardLogger())
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("Expected ErrNoPath when opening with empty path, got %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := setupTestStore(t)

	injected := errors.New("injected fault")
	err := store.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO analysis_history (user_id, guild_id, iq_score, purity_score, timestamp)
			VALUES (1, 1, 100, 50, '2024-01-01T00:00:00Z')
		`); err != nil {
			return err
		}
		return injected
	})
	if !errors.Is(err, injected) {
		t.Fatalf("Expected injected error, got %v", err)
	}

	if n := countRows(t, store, "SELECT COUNT(*) FROM analysis_history"); n != 0 {
		t.Errorf("Expected rollback to leave no history rows, found %d", n)
	}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	store := setupTestStore(t)

	err := store.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO analysis_history (user_id, guild_id, iq_score, purity_score, timestamp)
			VALUES (1, 1, 100, 50, '2024-01-01T00:00:00Z')
		`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if n := countRows(t, store, "SELECT COUNT(*) FROM analysis_history"); n != 1 {
		t.Errorf("Expected 1 committed history row, found %d", n)
	}
}
