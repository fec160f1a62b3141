package storage

import (
	"fmt"
)

// defaultRankLimit caps ranked duel queries when the caller passes no
// explicit limit.
const defaultRankLimit = 10

// AverageScores computes, for every user with at least one analysis
// history row in the guild, the per-user mean of both scores across
// their entire history, ordered by combined average descending. The
// averages read history only, never the profile's cached last-score
// fields; the profile join contributes the display name alone.
func (s *Store) AverageScores(guildID int64) ([]AverageScore, error) {
	rows, err := s.Query(`
		SELECT h.user_id, COALESCE(p.username, ''),
		       AVG(h.iq_score), AVG(h.purity_score)
		FROM analysis_history h
		LEFT JOIN user_profiles p
		  ON p.user_id = h.user_id AND p.guild_id = h.guild_id
		WHERE h.guild_id = ?
		GROUP BY h.user_id
		ORDER BY AVG(h.iq_score) + AVG(h.purity_score) DESC, h.user_id ASC
	`, guildID)
	if err != nil {
		s.logger.Error("failed to query average scores", "guildId", guildID, "error", err)
		return nil, fmt.Errorf("failed to query average scores for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var results []AverageScore
	for rows.Next() {
		var avg AverageScore
		if err := rows.Scan(&avg.UserID, &avg.Username, &avg.AvgIQ, &avg.AvgPurity); err != nil {
			return nil, fmt.Errorf("failed to scan average row: %w", err)
		}
		results = append(results, avg)
	}
	return results, rows.Err()
}

// ExtremeSingleRecord selects, for every user with history in the
// guild, exactly one analysis row: their highest (Best) or lowest
// (Worst) according to the metric, with the result list sorted the
// same way. Among a user's rows with equal metric value the earliest
// timestamp wins, then the lower row id, so the result is
// deterministic.
//
// The ORDER BY expression comes from the Metric/Direction enums only;
// caller-controlled strings never reach the query text.
func (s *Store) ExtremeSingleRecord(guildID int64, metric Metric, direction Direction) ([]ExtremeRecord, error) {
	expr, err := metric.orderExpr()
	if err != nil {
		return nil, err
	}
	order, err := direction.sqlOrder()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT user_id, username, iq_score, purity_score
		FROM (
			SELECT h.user_id, COALESCE(p.username, '') AS username,
				h.iq_score, h.purity_score,
				ROW_NUMBER() OVER (
					PARTITION BY h.user_id
					ORDER BY %[1]s %[2]s, h.timestamp ASC, h.id ASC
				) AS rn
			FROM analysis_history h
			LEFT JOIN user_profiles p
			  ON p.user_id = h.user_id AND p.guild_id = h.guild_id
			WHERE h.guild_id = ?
		)
		WHERE rn = 1
		ORDER BY %[1]s %[2]s, user_id ASC
	`, expr, order)

	rows, err := s.Query(query, guildID)
	if err != nil {
		s.logger.Error("failed to query extreme records",
			"guildId", guildID, "metric", metric.String(), "direction", direction.String(), "error", err)
		return nil, fmt.Errorf("failed to query %s %s records for guild %d: %w",
			direction.String(), metric.String(), guildID, err)
	}
	defer rows.Close()

	var results []ExtremeRecord
	for rows.Next() {
		var rec ExtremeRecord
		if err := rows.Scan(&rec.UserID, &rec.Username, &rec.IQ, &rec.Purity); err != nil {
			return nil, fmt.Errorf("failed to scan extreme record: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// TopByWins returns the guild's users with at least one duel win,
// ordered descending by win count and capped at limit (default 10).
// Duel rankings read the profile counters, never the history table.
func (s *Store) TopByWins(guildID int64, limit int) ([]WinCount, error) {
	if limit <= 0 {
		limit = defaultRankLimit
	}

	rows, err := s.Query(`
		SELECT user_id, COALESCE(username, ''), duel_wins
		FROM user_profiles
		WHERE guild_id = ? AND duel_wins > 0
		ORDER BY duel_wins DESC, user_id ASC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		s.logger.Error("failed to query top wins", "guildId", guildID, "error", err)
		return nil, fmt.Errorf("failed to query top wins for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var results []WinCount
	for rows.Next() {
		var wc WinCount
		if err := rows.Scan(&wc.UserID, &wc.Username, &wc.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan win count: %w", err)
		}
		results = append(results, wc)
	}
	return results, rows.Err()
}

// TopByWinRate returns the guild's users with at least one completed
// duel, ranked descending by win percentage and capped at limit
// (default 10). Users with zero duels have no defined rate and are
// excluded rather than ranked at 0%.
func (s *Store) TopByWinRate(guildID int64, limit int) ([]WinRate, error) {
	if limit <= 0 {
		limit = defaultRankLimit
	}

	rows, err := s.Query(`
		SELECT user_id, COALESCE(username, ''), duel_wins, duels_total,
		       100.0 * duel_wins / duels_total AS rate
		FROM user_profiles
		WHERE guild_id = ? AND duels_total > 0
		ORDER BY rate DESC, duel_wins DESC, user_id ASC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		s.logger.Error("failed to query win rates", "guildId", guildID, "error", err)
		return nil, fmt.Errorf("failed to query win rates for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var results []WinRate
	for rows.Next() {
		var wr WinRate
		if err := rows.Scan(&wr.UserID, &wr.Username, &wr.Wins, &wr.Total, &wr.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan win rate: %w", err)
		}
		results = append(results, wr)
	}
	return results, rows.Err()
}
