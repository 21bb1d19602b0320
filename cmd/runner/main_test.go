package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/gesture-runner/internal/runner"
	"github.com/vovakirdan/gesture-runner/internal/storage"
)

// setFlags points the global flags at a temp dir and restores them after
// the test.
func setFlags(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "runner.yaml")
	if err := os.WriteFile(cfgPath, []byte("timing:\n  tick_ms: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, db, logFile, level := flagConfig, flagDBPath, flagLogFile, flagLogLevel
	detector, scriptPath, clearRuns := flagDetector, flagScript, flagClear
	t.Cleanup(func() {
		flagConfig, flagDBPath, flagLogFile, flagLogLevel = cfg, db, logFile, level
		flagDetector, flagScript, flagClear = detector, scriptPath, clearRuns
	})

	flagConfig = cfgPath
	flagDBPath = filepath.Join(dir, "scores.db")
	flagLogFile = ""
	flagLogLevel = "info"
	return dir
}

func TestPlayUnknownDetectorReturnsError(t *testing.T) {
	setFlags(t)
	flagDetector = "no-such-detector"

	err := runPlay(playCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "no-such-detector") {
		t.Fatalf("runPlay() = %v, want unknown detector error", err)
	}
}

func TestSimulateErrorClosesLogFile(t *testing.T) {
	dir := setFlags(t)
	flagLogFile = filepath.Join(dir, "runner.log")
	flagScript = filepath.Join(dir, "missing.yaml")

	if err := runSimulate(simulateCmd, nil); err == nil {
		t.Fatal("runSimulate() with a missing script should fail")
	}

	// The log file was opened and released; removing it must succeed.
	if _, err := os.Stat(flagLogFile); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if err := os.Remove(flagLogFile); err != nil {
		t.Errorf("removing log file: %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	setFlags(t)
	flagLogLevel = "loud"

	if err := runSimulate(simulateCmd, nil); err == nil || !strings.Contains(err.Error(), "--log-level") {
		t.Errorf("runSimulate() = %v, want log level error", err)
	}
}

func TestScoresClear(t *testing.T) {
	setFlags(t)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(storage.Run{GameID: runner.ID, Player: "ana", Score: 3}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	flagClear = true
	if err := runScores(scoresCmd, nil); err != nil {
		t.Fatalf("runScores(--clear) failed: %v", err)
	}

	store, err = storage.Open(flagDBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if runs, _ := store.TopRuns(runner.ID, 10); len(runs) != 0 {
		t.Errorf("runs after clear = %d, want 0", len(runs))
	}
}
