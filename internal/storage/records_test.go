package storage

import (
	"testing"
)

func TestRecordAnalysisAtomicity(t *testing.T) {
	store := setupTestStore(t)

	if err := store.RecordAnalysis(42, 7, 150, 90, "Alice"); err != nil {
		t.Fatalf("RecordAnalysis failed: %v", err)
	}

	p, err := store.GetProfile(42, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p == nil {
		t.Fatal("Profile missing after RecordAnalysis")
	}
	if p.LastIQ == nil || *p.LastIQ != 150 {
		t.Errorf("Expected last IQ 150, got %v", p.LastIQ)
	}
	if p.LastPurity == nil || *p.LastPurity != 90 {
		t.Errorf("Expected last purity 90, got %v", p.LastPurity)
	}
	if p.TestsTaken != 1 {
		t.Errorf("Expected tests_taken incremented to 1, got %d", p.TestsTaken)
	}

	records, err := store.ListAnalysisHistory(7)
	if err != nil {
		t.Fatalf("ListAnalysisHistory failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected exactly one history row, got %d", len(records))
	}
	if records[0].UserID != 42 || records[0].IQ != 150 || records[0].Purity != 90 {
		t.Errorf("History row does not match recorded scores: %+v", records[0])
	}
	if records[0].Timestamp.IsZero() {
		t.Error("History row has no timestamp")
	}

	// A second event bumps the counter by exactly one and replaces the
	// latest scores.
	if err := store.RecordAnalysis(42, 7, 80, 40, "Alice"); err != nil {
		t.Fatalf("Second RecordAnalysis failed: %v", err)
	}
	p, err = store.GetProfile(42, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.TestsTaken != 2 {
		t.Errorf("Expected tests_taken 2, got %d", p.TestsTaken)
	}
	if *p.LastIQ != 80 || *p.LastPurity != 40 {
		t.Errorf("Expected latest scores 80/40, got %d/%d", *p.LastIQ, *p.LastPurity)
	}
}

func TestRecordAnalysisFailureLeavesNoPartialState(t *testing.T) {
	store := setupTestStore(t)

	// Force the history insert to fail mid-transaction by replacing the
	// history table with an incompatible shape.
	if _, err := store.Exec("DROP TABLE analysis_history"); err != nil {
		t.Fatalf("Failed to drop history table: %v", err)
	}
	if _, err := store.Exec("CREATE TABLE analysis_history (only_col TEXT)"); err != nil {
		t.Fatalf("Failed to create conflicting table: %v", err)
	}

	if err := store.RecordAnalysis(42, 7, 150, 90, "Alice"); err == nil {
		t.Fatal("Expected RecordAnalysis to fail")
	}

	// The profile upsert that ran earlier in the same transaction must
	// have been rolled back too.
	p, err := store.GetProfile(42, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p != nil {
		t.Errorf("Expected no profile after failed transaction, got %+v", p)
	}
}

func TestRecordDuelWinnerConsistency(t *testing.T) {
	store := setupTestStore(t)

	challenger, opponent := int64(1), int64(2)
	cases := []struct {
		name             string
		cScore, oScore   int
		wantWinner       *int64
	}{
		{"challenger wins", 80, 20, &challenger},
		{"opponent wins", 30, 70, &opponent},
		{"tie", 50, 50, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before, err := store.ListDuelHistory(7)
			if err != nil {
				t.Fatalf("ListDuelHistory failed: %v", err)
			}

			if err := store.RecordDuel(challenger, opponent, 7, tc.cScore, tc.oScore); err != nil {
				t.Fatalf("RecordDuel failed: %v", err)
			}

			after, err := store.ListDuelHistory(7)
			if err != nil {
				t.Fatalf("ListDuelHistory failed: %v", err)
			}
			if len(after) != len(before)+1 {
				t.Fatalf("Expected one new duel row, got %d -> %d", len(before), len(after))
			}

			rec := after[len(after)-1]
			if rec.ChallengerScore != int64(tc.cScore) || rec.OpponentScore != int64(tc.oScore) {
				t.Errorf("Stored scores %d/%d do not match input %d/%d",
					rec.ChallengerScore, rec.OpponentScore, tc.cScore, tc.oScore)
			}
			switch {
			case tc.wantWinner == nil && rec.WinnerID != nil:
				t.Errorf("Expected tie (nil winner), got %d", *rec.WinnerID)
			case tc.wantWinner != nil && rec.WinnerID == nil:
				t.Errorf("Expected winner %d, got tie", *tc.wantWinner)
			case tc.wantWinner != nil && *rec.WinnerID != *tc.wantWinner:
				t.Errorf("Expected winner %d, got %d", *tc.wantWinner, *rec.WinnerID)
			}
		})
	}
}

func TestRecordDuelCounterConservation(t *testing.T) {
	store := setupTestStore(t)

	// User 1 plays four duels: two wins, one loss, one tie.
	duels := []struct{ c, o int }{
		{80, 20}, // win
		{90, 10}, // win
		{10, 90}, // loss
		{50, 50}, // tie
	}
	for _, d := range duels {
		if err := store.RecordDuel(1, 2, 7, d.c, d.o); err != nil {
			t.Fatalf("RecordDuel failed: %v", err)
		}
	}

	p, err := store.GetProfile(1, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.DuelsTotal != 4 {
		t.Errorf("Expected duels_total 4, got %d", p.DuelsTotal)
	}
	if p.DuelWins != 2 || p.DuelLosses != 1 {
		t.Errorf("Expected 2 wins / 1 loss, got %d/%d", p.DuelWins, p.DuelLosses)
	}
	if p.DuelWins+p.DuelLosses > p.DuelsTotal {
		t.Errorf("Counter conservation violated: %d + %d > %d", p.DuelWins, p.DuelLosses, p.DuelsTotal)
	}
	// The gap counts ties.
	if gap := p.DuelsTotal - p.DuelWins - p.DuelLosses; gap != 1 {
		t.Errorf("Expected tie gap 1, got %d", gap)
	}

	// The opponent's counters mirror the challenger's.
	o, err := store.GetProfile(2, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if o.DuelsTotal != 4 || o.DuelWins != 1 || o.DuelLosses != 2 {
		t.Errorf("Expected opponent 4 total / 1 win / 2 losses, got %d/%d/%d",
			o.DuelsTotal, o.DuelWins, o.DuelLosses)
	}
}

func TestRecordDuelCreatesMissingProfiles(t *testing.T) {
	store := setupTestStore(t)

	// Neither participant has ever interacted.
	if err := store.RecordDuel(5, 6, 7, 60, 40); err != nil {
		t.Fatalf("RecordDuel failed: %v", err)
	}

	for _, id := range []int64{5, 6} {
		p, err := store.GetProfile(id, 7)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if p == nil {
			t.Fatalf("Expected profile for user %d after duel", id)
		}
		if p.DuelsTotal != 1 {
			t.Errorf("Expected duels_total 1 for user %d, got %d", id, p.DuelsTotal)
		}
	}
}

func TestRecordDuelFailureLeavesNoPartialState(t *testing.T) {
	store := setupTestStore(t)

	if err := store.EnsureUser(1, 7, "Alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	if _, err := store.Exec("DROP TABLE duel_history"); err != nil {
		t.Fatalf("Failed to drop duel table: %v", err)
	}
	if _, err := store.Exec("CREATE TABLE duel_history (only_col TEXT)"); err != nil {
		t.Fatalf("Failed to create conflicting table: %v", err)
	}

	if err := store.RecordDuel(1, 2, 7, 80, 20); err == nil {
		t.Fatal("Expected RecordDuel to fail")
	}

	p, err := store.GetProfile(1, 7)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.DuelsTotal != 0 || p.DuelWins != 0 {
		t.Errorf("Expected untouched counters after rollback, got total=%d wins=%d",
			p.DuelsTotal, p.DuelWins)
	}
	if p2, _ := store.GetProfile(2, 7); p2 != nil {
		t.Errorf("Expected opponent profile creation to be rolled back, got %+v", p2)
	}
}
