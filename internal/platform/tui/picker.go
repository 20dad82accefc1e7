package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/carmerge/internal/registry"
)

// PickerModel is the Bubble Tea model for choosing a variant.
type PickerModel struct {
	items        []registry.VariantInfo
	best         map[string]int // fewest moves per variant, if any round was saved
	cursor       int
	width        int
	height       int
	keys         PickerKeyMap
	help         help.Model
	quitting     bool
	selected     string
	wantsHistory bool
}

// NewPickerModel creates a picker listing every registered variant.
func NewPickerModel(store RoundStore, width, height int) PickerModel {
	items := registry.List()
	best := make(map[string]int)
	if store != nil {
		for _, it := range items {
			if rounds, err := store.BestRounds(it.ID, 1); err == nil && len(rounds) > 0 {
				best[it.ID] = rounds[0].Moves
			}
		}
	}

	h := help.New()
	h.Width = width
	return PickerModel{
		items:  items,
		best:   best,
		width:  width,
		height: height,
		keys:   DefaultPickerKeyMap(),
		help:   h,
	}
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// handleKey processes keyboard input for navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			m.selected = m.items[m.cursor].ID
		}

	case key.Matches(msg, m.keys.History):
		m.wantsHistory = true
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  C A R   M E R G E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Drag two matching cars together. Merge them all to call the escort.", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("%-12s %2d cars", item.Title, item.Cars)
		if moves, ok := m.best[item.ID]; ok {
			line += fmt.Sprintf("   best %d moves", moves)
		}
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen variant ID, or "" if none was chosen.
func (m PickerModel) Selected() string {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user asked for the round history.
func (m PickerModel) WantsHistory() bool {
	return m.wantsHistory
}
