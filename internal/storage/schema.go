package storage

import (
	"fmt"
)

// profileColumns lists the user_profiles columns that were added after
// the first release. EnsureSchema adds any that are missing so a store
// created by an older build stays usable; defaults keep existing rows
// valid.
var profileColumns = []struct {
	name string
	ddl  string
}{
	{"username", "ALTER TABLE user_profiles ADD COLUMN username TEXT"},
	{"last_iq_score", "ALTER TABLE user_profiles ADD COLUMN last_iq_score INTEGER DEFAULT NULL"},
	{"last_purity_score", "ALTER TABLE user_profiles ADD COLUMN last_purity_score INTEGER DEFAULT NULL"},
	{"tests_taken", "ALTER TABLE user_profiles ADD COLUMN tests_taken INTEGER NOT NULL DEFAULT 0"},
	{"duel_wins", "ALTER TABLE user_profiles ADD COLUMN duel_wins INTEGER NOT NULL DEFAULT 0"},
	{"duel_losses", "ALTER TABLE user_profiles ADD COLUMN duel_losses INTEGER NOT NULL DEFAULT 0"},
	{"duels_total", "ALTER TABLE user_profiles ADD COLUMN duels_total INTEGER NOT NULL DEFAULT 0"},
}

// EnsureSchema brings the store's schema to the version the running
// code expects. Every statement is idempotent, so it is safe to call on
// every process start; a failed run can simply be retried and converges
// to the same end state. Callers must not serve traffic if it fails.
func (s *Store) EnsureSchema() error {
	if _, err := s.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id INTEGER NOT NULL,
			guild_id INTEGER NOT NULL,
			username TEXT,
			last_iq_score INTEGER DEFAULT NULL,
			last_purity_score INTEGER DEFAULT NULL,
			tests_taken INTEGER NOT NULL DEFAULT 0,
			duel_wins INTEGER NOT NULL DEFAULT 0,
			duel_losses INTEGER NOT NULL DEFAULT 0,
			duels_total INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, guild_id)
		)
	`); err != nil {
		return fmt.Errorf("failed to create user_profiles table: %w", err)
	}

	// Additive column migration for stores created before a column
	// existed.
	existing, err := s.profileColumnSet()
	if err != nil {
		return err
	}
	for _, col := range profileColumns {
		if existing[col.name] {
			continue
		}
		if _, err := s.Exec(col.ddl); err != nil {
			return fmt.Errorf("failed to add column %s: %w", col.name, err)
		}
		s.logger.Info("Added missing column to user_profiles", "column", col.name)
	}

	if _, err := s.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			guild_id INTEGER NOT NULL,
			iq_score INTEGER NOT NULL,
			purity_score INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create analysis_history table: %w", err)
	}

	if _, err := s.Exec(`
		CREATE TABLE IF NOT EXISTS duel_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			challenger_id INTEGER NOT NULL,
			opponent_id INTEGER NOT NULL,
			guild_id INTEGER NOT NULL,
			challenger_score INTEGER NOT NULL,
			opponent_score INTEGER NOT NULL,
			winner_id INTEGER,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create duel_history table: %w", err)
	}

	// Guild-scoped aggregation reads scan these; without the indexes
	// they degrade to full table scans.
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_analysis_history_user_guild ON analysis_history(user_id, guild_id)",
		"CREATE INDEX IF NOT EXISTS idx_analysis_history_guild ON analysis_history(guild_id)",
		"CREATE INDEX IF NOT EXISTS idx_duel_history_guild ON duel_history(guild_id)",
	}
	for _, indexSQL := range indexes {
		if _, err := s.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	s.logger.Debug("Database schema is up to date", "path", s.dbPath)
	return nil
}

// profileColumnSet returns the live column set of user_profiles.
func (s *Store) profileColumnSet() (map[string]bool, error) {
	rows, err := s.Query("PRAGMA table_info(user_profiles)")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect user_profiles columns: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
