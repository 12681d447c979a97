package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-threes/internal/core"
	"github.com/vovakirdan/tui-threes/internal/games/threes"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

// Options configures a game model.
type Options struct {
	Cart       *storage.Cart // nil plays without saving
	Policy     threes.SavePolicy
	ShakeTicks int
	Logger     *log.Logger
}

// Model is the Bubble Tea model for playing Threes.
type Model struct {
	game       *threes.Game
	screen     *core.Screen
	cart       *storage.Cart
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	width      int
	height     int
	quitting   bool
	scoreSaved bool // whether the current board's score has been recorded
}

// NewModel creates a game model and boots it from the cart's saved memory.
func NewModel(cfg core.RuntimeConfig, opts Options) (Model, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	gameCfg := threes.Config{
		Policy:     opts.Policy,
		ShakeTicks: opts.ShakeTicks,
	}
	if opts.Cart != nil {
		mem, err := opts.Cart.Load()
		if err != nil {
			return Model{}, fmt.Errorf("load cart %s: %w", opts.Cart.Name(), err)
		}
		gameCfg.Persister = opts.Cart
		gameCfg.Memory = mem
		logger.Debug("loaded cart", "cart", opts.Cart.Name(), "fresh", mem.IsZero())
		if n := mem.Corrupt(); n > 0 {
			logger.Warn("skipped corrupt memory slots", "cart", opts.Cart.Name(), "slots", n)
		}
	}

	m := Model{
		game:       threes.New(gameCfg),
		cart:       opts.Cart,
		logger:     logger,
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.boardHeight())
	m.help.Width = cfg.ScreenW

	runtime := cfg
	runtime.ScreenH = m.boardHeight()
	if err := m.game.Reset(runtime); err != nil {
		return Model{}, err
	}
	m.gameState = m.game.State()
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// layout sizes the board area to leave room for the help bar.
func (m *Model) layout() {
	h := m.boardHeight()
	m.screen.Resize(m.width, h)
	m.game.Resize(m.width, h)
}

func (m Model) boardHeight() int {
	return max(m.height-lipgloss.Height(m.help.View(m.keys)), 0)
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var before threes.Snapshot
	if m.inputFrame.Has(core.ActionRestart) {
		before = m.game.Snapshot()
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if len(result.Events) > 0 {
		m.logger.Debug("step", "cart", m.cartName(), "events", result.Events, "score", result.State.Score)
	}
	if result.Err != nil {
		m.logger.Error("save failed", "cart", m.cartName(), "error", result.Err)
	}

	switch {
	case result.Has(core.EventRestarted):
		if !m.scoreSaved {
			m.recordScore(before.Score, before.MaxTile)
		}
		m.scoreSaved = false
		m.logger.Info("restarted", "cart", m.cartName(), "previous", result.Previous.Score)

	case result.State.GameOver && !m.scoreSaved:
		snap := m.game.Snapshot()
		m.recordScore(snap.Score, snap.MaxTile)
		m.scoreSaved = true
		m.logger.Info("game over", "cart", m.cartName(), "score", snap.Score, "best", snap.HighScore)
	}

	return m, tickCmd(m.config.TickRate)
}

// finish flushes the session when the game ends. The board is resumed next time,
// so its score is recorded only when it ends or is abandoned by a restart.
func (m *Model) finish() {
	if err := m.game.Persist(); err != nil {
		m.logger.Error("save failed", "cart", m.cartName(), "error", err)
	}
}

// recordScore adds a finished board to the scoreboard.
func (m *Model) recordScore(score, bestTile int) {
	if m.cart == nil || score <= 0 {
		return
	}
	if err := m.cart.RecordScore(score, bestTile); err != nil {
		m.logger.Warn("could not record score", "cart", m.cartName(), "error", err)
		return
	}
	m.logger.Debug("score recorded", "cart", m.cartName(), "score", score, "tile", bestTile)
}

func (m Model) cartName() string {
	if m.cart == nil {
		return ""
	}
	return m.cart.Name()
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".threes", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("threes_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Game exposes the running game.
func (m Model) Game() *threes.Game {
	return m.game
}

// Run starts the Bubble Tea program for local play.
func Run(cfg core.RuntimeConfig, opts Options) error {
	model, err := NewModel(cfg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.finish()
	}
	return err
}
