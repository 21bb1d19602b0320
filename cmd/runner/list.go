package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gesture-runner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available detectors",
	Long:  `Shows the hand detectors that can drive the game.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	detectors := registry.List()

	if len(detectors) == 0 {
		fmt.Println("No detectors available.")
		return nil
	}

	fmt.Println("Available detectors:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, d := range detectors {
		if len(d.Name) > maxNameLen {
			maxNameLen = len(d.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, d := range detectors {
		marker := " "
		if d.Name == cfg.Detector.Name {
			marker = "*"
		}
		fmt.Printf("%s %-*s  %s\n", marker, maxNameLen, d.Name, d.Title)
	}

	fmt.Println()
	if !registry.Exists(cfg.Detector.Name) {
		fmt.Printf("Configured detector %q is not available; pass --detector to play.\n", cfg.Detector.Name)
	} else {
		fmt.Println("* configured default")
	}
	fmt.Println("Run 'runner play --detector <name>' to use one.")
	return nil
}
