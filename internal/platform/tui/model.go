package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gesture-runner/internal/config"
	"github.com/vovakirdan/gesture-runner/internal/core"
	"github.com/vovakirdan/gesture-runner/internal/engine"
	"github.com/vovakirdan/gesture-runner/internal/runner"
	"github.com/vovakirdan/gesture-runner/internal/storage"
)

// redrawInterval is how often the view polls the engine for a snapshot.
const redrawInterval = time.Second / 30

// PlayOptions configures a play screen.
type PlayOptions struct {
	Config        config.RunnerConfig
	Player        string
	Seed          int64
	Width, Height int
	Logger        *log.Logger
}

// Model is the Bubble Tea model for the play screen. It never touches game
// state directly: it reads engine snapshots and sends commands.
type Model struct {
	eng    *engine.Engine
	store  *storage.Store
	opts   PlayOptions
	logger *log.Logger

	screen   *core.Screen
	keys     PlayKeyMap
	help     help.Model
	snap     runner.Snapshot
	best     int
	ended    chan runner.Snapshot
	quitting bool
}

// NewModel creates a play model around a running engine. Finished runs are
// saved to store, which may be nil.
func NewModel(eng *engine.Engine, store *storage.Store, opts PlayOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := Model{
		eng:    eng,
		store:  store,
		opts:   opts,
		logger: logger.WithPrefix("tui"),
		screen: core.NewScreen(opts.Width, opts.Height),
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
		snap:   eng.Snapshot(),
		ended:  make(chan runner.Snapshot, 4),
	}

	if store != nil {
		if best, err := store.HighScore(runner.ID); err == nil {
			m.best = best
		} else {
			m.logger.Warn("could not read high score", "error", err)
		}
	}

	// The hook runs on the scheduler thread; the save happens on the next redraw.
	ended := m.ended
	eng.OnGameOver(func(s runner.Snapshot) {
		select {
		case ended <- s:
		default:
		}
	})

	return m
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return frameCmd(redrawInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width, m.opts.Height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		return m.handleFrame()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionScreenshot:
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}

	case core.ActionRestart:
		m.eng.Restart()

	case core.ActionHand:
		if !m.eng.Press() {
			m.logger.Debug("hand key ignored: detector is not key driven")
		}
	}

	return m, nil
}

// handleFrame pulls the latest snapshot and saves finished runs.
func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	m.snap = m.eng.Snapshot()

drain:
	for {
		select {
		case s := <-m.ended:
			m.saveRun(s)
		default:
			break drain
		}
	}

	return m, frameCmd(redrawInterval)
}

// saveRun records a finished run; storage errors only cost the record.
func (m *Model) saveRun(s runner.Snapshot) {
	if s.Score > m.best {
		m.best = s.Score
	}
	if m.store == nil || s.Score <= 0 {
		return
	}

	_, err := m.store.SaveRun(storage.Run{
		GameID:   runner.ID,
		Player:   m.opts.Player,
		Score:    s.Score,
		Ticks:    s.Ticks,
		Jumps:    s.Jumps,
		Cleared:  s.Cleared,
		Duration: s.Duration(),
		Detector: m.opts.Config.Detector.Name,
		Seed:     m.opts.Seed,
	})
	if err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// draw renders the current snapshot into the screen buffer.
func (m Model) draw() {
	DrawScene(m.screen, m.snap, m.opts.Config, HUD{
		Player:    m.opts.Player,
		Detector:  m.opts.Config.Detector.Name,
		HighScore: m.best,
		Input:     m.eng.InputStats(),
		InputErr:  m.eng.InputErr(),
		Help:      m.help.ShortHelpView(m.keys.ShortHelp()),
	})
}

// saveScreenshot saves the current screen to a text file.
func (m Model) saveScreenshot() (string, error) {
	m.draw()

	dir, err := config.ExpandHome(filepath.Join("~", config.AppDir, "screenshots"))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", runner.ID, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Run plays on a realtime engine in the local terminal until the user quits.
func Run(eng *engine.Engine, store *storage.Store, opts PlayOptions) error {
	p := tea.NewProgram(
		NewModel(eng, store, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
