// Package tui provides the Bubble Tea integration for carmerge.
// It maps mouse drags to pointer events, drives the round clock and hosts
// the variant picker and round history screens.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxFrame caps the time fed to a round per tick, so a stalled terminal
// does not fast-forward animations.
const maxFrame = 100 * time.Millisecond

// TickMsg is sent to trigger an animation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func tickInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}

// frameDelta returns the measured time since the previous tick.
func frameDelta(last, now time.Time, tickRate int) time.Duration {
	if last.IsZero() {
		return tickInterval(tickRate)
	}
	d := now.Sub(last)
	if d < 0 {
		return 0
	}
	return min(d, maxFrame)
}
