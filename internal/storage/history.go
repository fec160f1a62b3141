package storage

import (
	"fmt"
	"time"
)

// ListAnalysisHistory returns a guild's full analysis event log in
// insertion order.
func (s *Store) ListAnalysisHistory(guildID int64) ([]AnalysisRecord, error) {
	rows, err := s.Query(`
		SELECT id, user_id, guild_id, iq_score, purity_score, timestamp
		FROM analysis_history
		WHERE guild_id = ?
		ORDER BY id ASC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis history for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var (
			rec AnalysisRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.GuildID, &rec.IQ, &rec.Purity, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		rec.Timestamp, err = parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListDuelHistory returns a guild's full duel event log in insertion
// order.
func (s *Store) ListDuelHistory(guildID int64) ([]DuelRecord, error) {
	rows, err := s.Query(`
		SELECT id, challenger_id, opponent_id, guild_id, challenger_score, opponent_score, winner_id, timestamp
		FROM duel_history
		WHERE guild_id = ?
		ORDER BY id ASC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list duel history for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var records []DuelRecord
	for rows.Next() {
		var (
			rec    DuelRecord
			winner *int64
			ts     string
		)
		if err := rows.Scan(&rec.ID, &rec.ChallengerID, &rec.OpponentID, &rec.GuildID,
			&rec.ChallengerScore, &rec.OpponentScore, &winner, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan duel record: %w", err)
		}
		rec.WinnerID = winner
		rec.Timestamp, err = parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse history timestamp %q: %w", s, err)
	}
	return t, nil
}
