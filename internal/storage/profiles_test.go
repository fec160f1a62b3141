package storage

import (
	"testing"
)

func TestEnsureUserUpsert(t *testing.T) {
	store := setupTestStore(t)

	if err := store.EnsureUser(1, 100, "Alice"); err != nil {
		t.Fatalf("First EnsureUser failed: %v", err)
	}
	if err := store.EnsureUser(1, 100, "Bob"); err != nil {
		t.Fatalf("Second EnsureUser failed: %v", err)
	}

	if n := countRows(t, store, "SELECT COUNT(*) FROM user_profiles WHERE user_id = 1 AND guild_id = 100"); n != 1 {
		t.Fatalf("Expected exactly one profile row, found %d", n)
	}

	p, err := store.GetProfile(1, 100)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p == nil {
		t.Fatal("Expected profile, got none")
	}
	if p.Username != "Bob" {
		t.Errorf("Expected last-writer username %q, got %q", "Bob", p.Username)
	}
	if p.LastIQ != nil || p.LastPurity != nil {
		t.Errorf("Expected nil scores before first analysis, got %v/%v", p.LastIQ, p.LastPurity)
	}
	if p.TestsTaken != 0 {
		t.Errorf("EnsureUser must not touch counters, tests_taken = %d", p.TestsTaken)
	}
}

func TestEnsureUserDoesNotResetCounters(t *testing.T) {
	store := setupTestStore(t)

	if err := store.RecordAnalysis(1, 100, 120, 60, "Alice"); err != nil {
		t.Fatalf("RecordAnalysis failed: %v", err)
	}
	if err := store.EnsureUser(1, 100, "Alice2"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	p, err := store.GetProfile(1, 100)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.TestsTaken != 1 {
		t.Errorf("Expected tests_taken 1 after re-ensure, got %d", p.TestsTaken)
	}
	if p.LastIQ == nil || *p.LastIQ != 120 {
		t.Errorf("Expected last IQ 120 to survive re-ensure, got %v", p.LastIQ)
	}
	if p.Username != "Alice2" {
		t.Errorf("Expected refreshed username, got %q", p.Username)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	store := setupTestStore(t)

	p, err := store.GetProfile(999, 1)
	if err != nil {
		t.Fatalf("Missing profile must not be an error, got %v", err)
	}
	if p != nil {
		t.Fatalf("Expected nil profile for unknown user, got %+v", p)
	}
}

func TestProfilesAreGuildScoped(t *testing.T) {
	store := setupTestStore(t)

	if err := store.EnsureUser(1, 100, "Alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if err := store.EnsureUser(1, 200, "AliceElsewhere"); err != nil {
		t.Fatalf("EnsureUser in second guild failed: %v", err)
	}

	if n := countRows(t, store, "SELECT COUNT(*) FROM user_profiles WHERE user_id = 1"); n != 2 {
		t.Fatalf("Expected one row per guild, found %d", n)
	}

	p, err := store.GetProfile(1, 200)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if p.Username != "AliceElsewhere" {
		t.Errorf("Guild rows must be independent, got username %q", p.Username)
	}
}

func TestListProfiles(t *testing.T) {
	store := setupTestStore(t)

	for i := int64(3); i >= 1; i-- {
		if err := store.EnsureUser(i, 100, "user"); err != nil {
			t.Fatalf("EnsureUser failed: %v", err)
		}
	}
	if err := store.EnsureUser(9, 200, "other-guild"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	profiles, err := store.ListProfiles(100)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("Expected 3 profiles, got %d", len(profiles))
	}
	for i, p := range profiles {
		if p.UserID != int64(i+1) {
			t.Errorf("Expected user id order 1,2,3; got %d at index %d", p.UserID, i)
		}
	}
}
