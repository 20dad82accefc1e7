package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/game"
	"github.com/vovakirdan/carmerge/internal/registry"
)

type sessionScreen int

const (
	screenPicker sessionScreen = iota
	screenRound
	screenHistory
)

// SessionModel manages the full session flow: picker -> round -> picker,
// with the history screen reachable from the picker.
type SessionModel struct {
	env      Env
	config   core.RuntimeConfig
	screen   sessionScreen
	picker   PickerModel
	round    *RoundModel
	history  *HistoryModel
	quitting bool
}

// NewSessionModel creates a session. A non-empty variant skips the picker.
func NewSessionModel(env Env, cfg core.RuntimeConfig, variant string) (SessionModel, error) {
	m := SessionModel{
		env:    env,
		config: cfg,
		picker: NewPickerModel(env.Store, cfg.ScreenW, cfg.ScreenH),
	}
	if variant != "" {
		if err := m.startRound(variant); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (m *SessionModel) startRound(variant string) error {
	v, err := registry.Create(variant)
	if err != nil {
		return err
	}
	r, err := game.NewRound(v, m.env.Config, m.env.Catalog, game.WithLogger(m.env.logger()))
	if err != nil {
		return fmt.Errorf("cannot start %s: %w", variant, err)
	}
	rm := NewRoundModel(r, m.env, m.config)
	m.round = &rm
	m.screen = screenRound
	return nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenRound {
		return m.round.Init()
	}
	return m.picker.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenRound:
		return m.updateRound(msg)
	case screenHistory:
		return m.updateHistory(msg)
	}
	return m.updatePicker(msg)
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	if p, ok := next.(PickerModel); ok {
		m.picker = p
	}

	switch {
	case m.picker.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.picker.WantsHistory():
		h := NewHistoryModel(m.env.Store, "", m.config.ScreenW, m.config.ScreenH)
		m.history = &h
		m.screen = screenHistory
		m.picker = NewPickerModel(m.env.Store, m.config.ScreenW, m.config.ScreenH)
		return m, h.Init()

	case m.picker.Selected() != "":
		id := m.picker.Selected()
		m.picker = NewPickerModel(m.env.Store, m.config.ScreenW, m.config.ScreenH)
		if err := m.startRound(id); err != nil {
			// Picker only lists registered variants.
			m.env.logger().Error("cannot start round", "variant", id, "err", err)
			return m, nil
		}
		return m, m.round.Init()
	}

	return m, cmd
}

func (m SessionModel) updateRound(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.round.Update(msg)
	if rm, ok := next.(RoundModel); ok {
		m.round = &rm
	}

	if m.round.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.round.BackToMenu() {
		m.round = nil
		m.screen = screenPicker
		// Pick up a record set by the round just left.
		m.picker = NewPickerModel(m.env.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.picker.Init()
	}

	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if h, ok := next.(HistoryModel); ok {
		m.history = &h
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.history = nil
		m.screen = screenPicker
		return m, nil
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenRound:
		return m.round.View()
	case screenHistory:
		return m.history.View()
	}
	return m.picker.View()
}

// Run starts the Bubble Tea program on the local terminal.
func Run(env Env, cfg core.RuntimeConfig, variant string) error {
	model, err := NewSessionModel(env, cfg, variant)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Press, drag motion and release
	)

	_, err = p.Run()
	return err
}
