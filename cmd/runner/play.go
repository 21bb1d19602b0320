package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gesture-runner/internal/engine"
	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/platform/tui"
	"github.com/vovakirdan/gesture-runner/internal/registry"
	"github.com/vovakirdan/gesture-runner/internal/storage"
)

var (
	flagDetector string
	flagSource   string
	flagPlayer   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

The runner jumps whenever the detector sees a hand. With the keyboard
detector (the default) the space bar stands in for the hand.

Controls:
  Space/H    - Show a hand (keyboard detector)
  R          - Restart
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Logs go to --log-file; without it they are discarded while playing.

Examples:
  runner play
  runner play --seed 42
  runner play --detector script --source ./bot.yaml
  runner play --config ./my-runner.yaml --log-file /tmp/runner.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDetector, "detector", "", "Detector name (overrides detector.name)")
	playCmd.Flags().StringVar(&flagSource, "source", "", "Detector source (overrides detector.source)")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Player name for the scoreboard")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDetector != "" {
		cfg.Detector.Name = flagDetector
	}
	if flagSource != "" {
		cfg.Detector.Source = flagSource
	}

	load, err := registry.Lookup(cfg.Detector.Name)
	if err != nil {
		return fmt.Errorf("%w (run 'runner list' to see available detectors)", err)
	}

	// The alternate screen owns the terminal; never log to it.
	logger, closeLog, err := newLogger("runner", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := seed()
	eng, err := engine.StartRealtime(ctx, engine.Config{
		Runner: cfg,
		Seed:   s,
		Load:   load,
		Source: gesture.NewSyntheticSource(width, height, cfg.Detector.WarmupFrames),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	defer eng.Close()

	err = tui.Run(eng, store, tui.PlayOptions{
		Config: cfg,
		Player: flagPlayer,
		Seed:   s,
		Width:  width,
		Height: height,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
