package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// upsertProfileSQL inserts a zeroed profile row or, when the row already
// exists, updates only the last-observed username. Counters and scores
// are never touched here.
const upsertProfileSQL = `
	INSERT INTO user_profiles (user_id, guild_id, username, last_iq_score, last_purity_score, tests_taken, duel_wins, duel_losses, duels_total)
	VALUES (?, ?, ?, NULL, NULL, 0, 0, 0, 0)
	ON CONFLICT(user_id, guild_id) DO UPDATE SET
		username = excluded.username
`

// EnsureUser makes sure a profile row exists for the (user, guild) pair,
// creating it with zeroed counters if absent and refreshing the
// username otherwise. Safe to call redundantly and concurrently for the
// same key; last writer wins on username.
func (s *Store) EnsureUser(userID, guildID int64, username string) error {
	if _, err := s.Exec(upsertProfileSQL, userID, guildID, username); err != nil {
		s.logger.Error("failed to ensure user profile",
			"userId", userID, "guildId", guildID, "error", err)
		return fmt.Errorf("failed to ensure profile for user %d in guild %d: %w", userID, guildID, err)
	}
	return nil
}

// GetProfile retrieves a user's profile. A missing profile is not an
// error: it returns (nil, nil).
func (s *Store) GetProfile(userID, guildID int64) (*Profile, error) {
	row := s.QueryRow(`
		SELECT user_id, guild_id, username, last_iq_score, last_purity_score,
		       tests_taken, duel_wins, duel_losses, duels_total
		FROM user_profiles
		WHERE user_id = ? AND guild_id = ?
	`, userID, guildID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to fetch user profile",
			"userId", userID, "guildId", guildID, "error", err)
		return nil, fmt.Errorf("failed to fetch profile for user %d in guild %d: %w", userID, guildID, err)
	}
	return p, nil
}

// ListProfiles returns every profile in a guild, ordered by user id.
func (s *Store) ListProfiles(guildID int64) ([]Profile, error) {
	rows, err := s.Query(`
		SELECT user_id, guild_id, username, last_iq_score, last_purity_score,
		       tests_taken, duel_wins, duel_losses, duels_total
		FROM user_profiles
		WHERE guild_id = ?
		ORDER BY user_id ASC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p          Profile
		username   sql.NullString
		lastIQ     sql.NullInt64
		lastPurity sql.NullInt64
	)
	err := row.Scan(&p.UserID, &p.GuildID, &username, &lastIQ, &lastPurity,
		&p.TestsTaken, &p.DuelWins, &p.DuelLosses, &p.DuelsTotal)
	if err != nil {
		return nil, err
	}
	p.Username = username.String
	if lastIQ.Valid {
		p.LastIQ = &lastIQ.Int64
	}
	if lastPurity.Valid {
		p.LastPurity = &lastPurity.Int64
	}
	return &p, nil
}
