// runner is an endless runner played by showing a hand to a camera.
//
// Usage:
//
//	runner play              - Play in the terminal
//	runner simulate          - Headless run on virtual time
//	runner scores            - Show high scores
//	runner serve             - Start SSH server for remote play
//	runner list              - List available detectors
//
// Global flags:
//
//	--config <path>     - Game config YAML (default: search, then built-in)
//	--seed <value>      - Set RNG seed for reproducible obstacle pacing
//	--db <path>         - Set database path (default: ~/.gesture-runner/scores.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gesture-runner/internal/config"

	// Import detectors to register them
	_ "github.com/vovakirdan/gesture-runner/internal/gesture/keyboard"
	_ "github.com/vovakirdan/gesture-runner/internal/gesture/script"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Gesture Runner - jump over obstacles by raising your hand",
	Long: `Gesture Runner is an endless runner whose only input is a hand
detector watching a camera. Every time a hand is seen the runner jumps.

Available commands:
  play      - Play in the terminal
  simulate  - Run a headless game on virtual time
  scores    - View high scores
  serve     - Start SSH server for remote play
  list      - Show available detectors

Examples:
  runner play
  runner play --detector script --source ./bot.yaml
  runner simulate --every 40 --seed 7
  runner serve --ssh :2222
  runner scores`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/"+config.AppDir+"/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger. fallback receives logs when no
// --log-file is given. The returned close function releases the file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		path, err := config.ExpandHome(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadConfig loads the game config following the search order.
func loadConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// seed returns --seed, or a time-based seed when it is 0.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
