package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gesture-runner/internal/platform/tui"
	"github.com/vovakirdan/gesture-runner/internal/runner"
	"github.com/vovakirdan/gesture-runner/internal/storage"
)

var (
	flagPlain bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best runs. In a terminal this opens a scrollable table;
with --plain, or when output is piped, the top 10 are printed.

Examples:
  runner scores
  runner scores --plain
  runner scores --clear
  runner scores --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the top 10 instead of opening the table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(runner.ID); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			return fmt.Errorf("running scoreboard: %w", err)
		}
		return nil
	}

	runs, err := store.TopRuns(runner.ID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", runner.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-8s  %s\n", "Rank", "Player", "Score", "Jumps", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-8s  %s\n", "----", "------", "-----", "-----", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-6d  %-6d  %-8s  %s\n",
			i+1, r.Player, r.Score, r.Jumps,
			fmt.Sprintf("%.1fs", r.Duration.Seconds()),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(runner.ID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
