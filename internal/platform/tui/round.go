package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
	"github.com/vovakirdan/carmerge/internal/game"
	"github.com/vovakirdan/carmerge/internal/storage"
)

// RoundModel is the Bubble Tea model for playing one variant.
// Mouse press, motion and release become pointer events on the round.
type RoundModel struct {
	env    Env
	round  *game.Round
	screen *core.Screen
	config core.RuntimeConfig
	keys   RoundKeyMap
	help   help.Model

	lastTick    time.Time
	lastVersion uint64
	published   bool
	saved       bool // Whether the result has been saved for this round
	quitting    bool
	backToMenu  bool
}

// NewRoundModel creates a model and starts a fresh round.
func NewRoundModel(round *game.Round, env Env, cfg core.RuntimeConfig) RoundModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := RoundModel{
		env:    env,
		round:  round,
		config: cfg,
		keys:   DefaultRoundKeyMap(),
		help:   help.New(),
	}
	m.help.Width = cfg.ScreenW

	board := m.boardConfig()
	m.screen = core.NewScreen(board.ScreenW, board.ScreenH)
	m.round.Reset(board)
	return m
}

// boardConfig is the runtime config minus the rows taken by the help bar.
func (m RoundModel) boardConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-lipgloss.Height(m.help.View(m.keys)), 1)
	return cfg
}

// Init starts the tick loop.
func (m RoundModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m RoundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// resize keeps the round in progress; only the camera is refitted.
func (m *RoundModel) resize() {
	board := m.boardConfig()
	m.screen.Resize(board.ScreenW, board.ScreenH)
	m.round.Resize(board.ScreenW, board.ScreenH)
}

// handleKey processes keyboard input.
func (m RoundModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true

	case key.Matches(msg, m.keys.Release):
		if m.round.Dragging() {
			m.pointerError("release", m.round.Release())
		}

	case key.Matches(msg, m.keys.Restart):
		if m.round.State().GameOver {
			m.restart()
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}

	return m, nil
}

func (m *RoundModel) handleMouse(msg tea.MouseMsg) {
	pos := core.ScreenPos{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointerError("down", m.round.PointerDown(pos))
		}

	case tea.MouseActionMotion:
		if m.round.Dragging() {
			m.pointerError("move", m.round.PointerMove(pos))
		}

	case tea.MouseActionRelease:
		if !m.round.Dragging() {
			return
		}
		err := m.round.PointerUp(pos)
		if errors.Is(err, engine.ErrNoTarget) {
			// Let go outside the lot: drop at the last cell the guide showed.
			err = m.round.Release()
		}
		m.pointerError("up", err)
	}
}

// pointerError logs rejected pointer events. They are normal during play.
func (m RoundModel) pointerError(event string, err error) {
	if err != nil {
		m.env.logger().Debug("pointer event ignored", "event", event, "err", err)
	}
}

// handleTick advances the round by the measured frame time.
func (m RoundModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.round.Tick(frameDelta(m.lastTick, now, m.config.TickRate))
	m.lastTick = now

	if v := m.round.Version(); !m.published || v != m.lastVersion {
		m.publish()
		m.lastVersion = v
		m.published = true
	}

	// Save result on game over (once)
	if m.round.State().GameOver && !m.saved {
		m.saveResult()
		m.saved = true
	}

	return m, tickCmd(m.config.TickRate)
}

func (m RoundModel) publish() {
	if m.env.Watch != nil {
		m.env.Watch.Publish(m.round.ID(), m.round.Variant().ID, m.round.Snapshot())
	}
}

func (m RoundModel) saveResult() {
	st := m.round.State()
	result := storage.RoundResult{
		RoundID:  m.round.ID(),
		Variant:  m.round.Variant().ID,
		Player:   m.env.Player,
		Moves:    st.Moves,
		Merges:   st.Merges,
		Duration: m.round.Elapsed(),
	}

	logger := m.env.logger()
	logger.Info("round finished",
		"round", result.RoundID,
		"variant", result.Variant,
		"moves", result.Moves,
		"elapsed", result.Duration.Round(time.Millisecond),
	)

	if m.env.Store == nil {
		return
	}
	if _, err := m.env.Store.SaveRound(result); err != nil {
		// Best-effort save, the session continues regardless
		logger.Warn("could not save round", "round", result.RoundID, "err", err)
	}
}

// restart deals a new layout with a fresh seed.
func (m *RoundModel) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.round.Reset(m.boardConfig())
	m.saved = false
	m.published = false
}

// View renders the current state to a string for display.
func (m RoundModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.round.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Round returns the round being played.
func (m RoundModel) Round() *game.Round {
	return m.round
}

// IsQuitting returns true if user requested to quit entirely.
func (m RoundModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested the variant picker.
func (m RoundModel) BackToMenu() bool {
	return m.backToMenu
}
