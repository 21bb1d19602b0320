package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := Run{
		GameID:   "runner",
		Player:   "ana",
		Score:    35,
		Ticks:    812,
		Jumps:    8,
		Cleared:  7,
		Duration: 24360 * time.Millisecond,
		Detector: "keyboard",
		Seed:     42,
	}
	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveRun() id = %d, want positive", id)
	}

	runs, err := store.TopRuns("runner", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	got.ID, got.CreatedAt = 0, time.Time{}
	if got != want {
		t.Errorf("TopRuns()[0] = %+v, want %+v", got, want)
	}
}

func TestStoreTopRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 500, 300, 500, 200} {
		if _, err := store.SaveRun(Run{GameID: "runner", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	store.SaveRun(Run{GameID: "other", Score: 900})

	runs, err := store.TopRuns("runner", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(runs))
	}
	if runs[0].Score != 500 || runs[1].Score != 500 || runs[2].Score != 300 {
		t.Errorf("Runs not in expected order: %+v", runs)
	}
	if runs[0].ID > runs[1].ID {
		t.Error("Equal scores should list the earlier run first")
	}
}

func TestStoreSaveRunRequiresGameID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(Run{Score: 5}); err == nil {
		t.Error("SaveRun() without game id should fail")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("runner")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveRun(Run{GameID: "runner", Score: 10})
	store.SaveRun(Run{GameID: "runner", Score: 30})
	store.SaveRun(Run{GameID: "runner", Score: 20})

	high, err = store.HighScore("runner")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Errorf("Expected high score of 30, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{GameID: "runner", Score: 10})
	store.SaveRun(Run{GameID: "other", Score: 20})

	if err := store.ClearRuns("runner"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	if runs, _ := store.TopRuns("runner", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if runs, _ := store.TopRuns("other", 10); len(runs) != 1 {
		t.Error("Other games should not be affected by clearing runner")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GameStats("runner")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(Run{GameID: "runner", Score: 10, Jumps: 3})
	store.SaveRun(Run{GameID: "runner", Score: 30, Jumps: 7})

	stats, err := store.GameStats("runner")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalJumps != 10 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}
