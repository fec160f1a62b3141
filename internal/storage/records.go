package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// timestampLayout is the history timestamp format: RFC 3339, UTC,
// second precision.
const timestampLayout = "2006-01-02T15:04:05Z07:00"

func nowTimestamp() string {
	return time.Now().UTC().Truncate(time.Second).Format(timestampLayout)
}

// RecordAnalysis stores one analysis event: it ensures the profile row
// exists (refreshing the username), appends an analysis_history row and
// updates the profile's latest scores and tests_taken counter. All
// three writes commit together or not at all.
func (s *Store) RecordAnalysis(userID, guildID int64, iq, purity int, username string) error {
	err := s.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(upsertProfileSQL, userID, guildID, username); err != nil {
			return fmt.Errorf("failed to ensure profile: %w", err)
		}

		if _, err := tx.Exec(`
			INSERT INTO analysis_history (user_id, guild_id, iq_score, purity_score, timestamp)
			VALUES (?, ?, ?, ?, ?)
		`, userID, guildID, iq, purity, nowTimestamp()); err != nil {
			return fmt.Errorf("failed to append analysis history: %w", err)
		}

		if _, err := tx.Exec(`
			UPDATE user_profiles
			SET last_iq_score = ?,
			    last_purity_score = ?,
			    tests_taken = tests_taken + 1
			WHERE user_id = ? AND guild_id = ?
		`, iq, purity, userID, guildID); err != nil {
			return fmt.Errorf("failed to update profile scores: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("failed to record analysis",
			"userId", userID, "guildId", guildID, "error", err)
		return err
	}

	s.logger.Info("Recorded analysis",
		"userId", userID, "guildId", guildID, "iq", iq, "purity", purity)
	return nil
}

// RecordDuel stores one duel event: it appends a duel_history row and
// updates both participants' counters in a single transaction. The
// winner is derived here from the two scores (higher score wins, equal
// scores tie) so it can never disagree with them.
//
// Precondition: challengerID and opponentID are two distinct users; the
// command layer rejects self-duels before this is invoked.
func (s *Store) RecordDuel(challengerID, opponentID, guildID int64, challengerScore, opponentScore int) error {
	var winnerID sql.NullInt64
	switch {
	case challengerScore > opponentScore:
		winnerID = sql.NullInt64{Int64: challengerID, Valid: true}
	case opponentScore > challengerScore:
		winnerID = sql.NullInt64{Int64: opponentID, Valid: true}
	}

	err := s.WithTx(func(tx *sql.Tx) error {
		// The transaction is self-sufficient: participants who have
		// never interacted before still get a profile row so the
		// counter updates below cannot silently hit zero rows.
		for _, id := range []int64{challengerID, opponentID} {
			if _, err := tx.Exec(`
				INSERT OR IGNORE INTO user_profiles (user_id, guild_id, username, last_iq_score, last_purity_score, tests_taken, duel_wins, duel_losses, duels_total)
				VALUES (?, ?, NULL, NULL, NULL, 0, 0, 0, 0)
			`, id, guildID); err != nil {
				return fmt.Errorf("failed to ensure profile for user %d: %w", id, err)
			}
		}

		if _, err := tx.Exec(`
			INSERT INTO duel_history (challenger_id, opponent_id, guild_id, challenger_score, opponent_score, winner_id, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, challengerID, opponentID, guildID, challengerScore, opponentScore, winnerID, nowTimestamp()); err != nil {
			return fmt.Errorf("failed to append duel history: %w", err)
		}

		if err := bumpDuelCounters(tx, challengerID, guildID, winnerID); err != nil {
			return fmt.Errorf("failed to update challenger counters: %w", err)
		}
		if err := bumpDuelCounters(tx, opponentID, guildID, winnerID); err != nil {
			return fmt.Errorf("failed to update opponent counters: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("failed to record duel",
			"challengerId", challengerID, "opponentId", opponentID,
			"guildId", guildID, "error", err)
		return err
	}

	s.logger.Info("Recorded duel",
		"challengerId", challengerID, "challengerScore", challengerScore,
		"opponentId", opponentID, "opponentScore", opponentScore,
		"guildId", guildID, "tie", !winnerID.Valid)
	return nil
}

// bumpDuelCounters increments one participant's duel counters:
// duels_total always, and exactly one of duel_wins/duel_losses unless
// the duel was a tie.
func bumpDuelCounters(tx *sql.Tx, userID, guildID int64, winnerID sql.NullInt64) error {
	winInc, lossInc := 0, 0
	if winnerID.Valid {
		if winnerID.Int64 == userID {
			winInc = 1
		} else {
			lossInc = 1
		}
	}
	_, err := tx.Exec(`
		UPDATE user_profiles
		SET duels_total = duels_total + 1,
		    duel_wins = duel_wins + ?,
		    duel_losses = duel_losses + ?
		WHERE user_id = ? AND guild_id = ?
	`, winInc, lossInc, userID, guildID)
	return err
}
