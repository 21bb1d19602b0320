package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/core"
	"github.com/vovakirdan/gesture-runner/internal/gesture"
	"github.com/vovakirdan/gesture-runner/internal/runner"
)

// Scene glyphs.
const (
	glyphPlayer   = '@'
	glyphObstacle = '#'
	glyphGround   = '─'
	glyphZone     = '═'
)

// HUD is the host information drawn around the playfield.
type HUD struct {
	Player    string
	Detector  string
	HighScore int
	Input     gesture.Stats
	InputErr  error
	Help      string
}

// minScene is the smallest screen the playfield fits in.
var minScene = core.NewRect(0, 0, 20, 8)

// DrawScene renders a snapshot onto the screen. World X runs from
// offscreen_x on the left edge to spawn_x on the right; the player stands
// over the judgment zone.
func DrawScene(s *core.Screen, snap runner.Snapshot, cfg config.RunnerConfig, hud HUD) {
	s.Clear()

	w, h := s.Width(), s.Height()
	if w < minScene.W || h < minScene.H {
		s.DrawTextCentered(h/2, "terminal too small")
		return
	}

	drawStatus(s, snap, hud)

	ground := h - 2
	top := 3
	lo, hi := cfg.Obstacles.OffscreenX, cfg.Obstacles.SpawnX
	col := func(x float64) int {
		return core.Scale(x, lo, hi, w)
	}

	s.DrawHLine(0, ground, w, glyphGround, core.ColorGray)
	zoneL, zoneR := col(cfg.Scoring.ZoneMin), col(cfg.Scoring.ZoneMax)
	s.DrawHLine(zoneL, ground, zoneR-zoneL+1, glyphZone, core.ColorYellow)

	for _, x := range snap.Obstacles {
		c := col(x)
		s.SetColor(c, ground-1, glyphObstacle, core.ColorRed)
		s.SetColor(c, ground-2, glyphObstacle, core.ColorRed)
	}

	// Player height in rows above the ground.
	field := ground - 1 - top
	rise := core.Scale(snap.Height, 0, cfg.Physics.PeakHeight, field+1)
	playerCol := (zoneL + zoneR) / 2
	playerColor := core.ColorGreen
	if snap.Over {
		playerColor = core.ColorRed
	}
	s.SetColor(playerCol, core.Clamp(ground-1-rise, top, ground-1), glyphPlayer, playerColor)

	if hud.Help != "" {
		s.DrawTextColor(0, h-1, hud.Help, core.ColorGray)
	}

	if snap.Over {
		drawGameOver(s, snap, hud)
	}
}

func drawStatus(s *core.Screen, snap runner.Snapshot, hud HUD) {
	title := strings.ToUpper(runner.Title)
	s.DrawTextColor(0, 0, title, core.ColorBrightWhite)

	score := fmt.Sprintf("score %d  best %d", snap.Score, max(hud.HighScore, snap.Score))
	s.DrawTextColor(len(title)+2, 0, score, core.ColorCyan)

	status := fmt.Sprintf("%-10s jumps %d  cleared %d", snap.Phase, snap.Jumps, snap.Cleared)
	s.DrawText(0, 1, status)

	if hud.InputErr != nil {
		s.DrawTextColor(0, 2, "input lost: "+hud.InputErr.Error(), core.ColorRed)
		return
	}
	input := fmt.Sprintf("input %s  frames %d  hands %d  errors %d",
		hud.Detector, hud.Input.Detections, hud.Input.Presences, hud.Input.Failures)
	if hud.Input.Detections == 0 {
		input = fmt.Sprintf("input %s  waiting for camera...", hud.Detector)
	}
	s.DrawTextColor(0, 2, input, core.ColorGray)
}

func drawGameOver(s *core.Screen, snap runner.Snapshot, hud HUD) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("score %d", snap.Score),
		fmt.Sprintf("time  %.1fs", snap.Duration().Seconds()),
		"",
		"r restart   q quit",
	}
	if snap.Score > 0 && snap.Score >= hud.HighScore {
		lines[1] = "new best!"
	}

	bw := 26
	bh := len(lines) + 2
	box := core.NewRect((s.Width()-bw)/2, (s.Height()-bh)/2, bw, bh)
	s.DrawRect(box, ' ')
	s.DrawBox(box)
	for i, line := range lines {
		x := box.X + (bw-len(line))/2
		c := core.ColorDefault
		if i == 0 {
			c = core.ColorOrange
		}
		s.DrawTextColor(x, box.Y+1+i, line, c)
	}
}
