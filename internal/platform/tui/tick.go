// Package tui provides the Bubble Tea front end for the gesture runner.
// It renders engine snapshots, maps keys to host actions and serves the
// same view over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent to trigger a redraw from the latest engine snapshot.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends a frame message after interval.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
