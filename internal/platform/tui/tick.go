// Package tui is the terminal front end of wavekit: the live lane monitor,
// the scenario picker and the run history table, each usable locally or
// over an SSH session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wavekit/internal/core"
)

// TickMsg asks the monitor to step the simulation once.
// Ticks keep arriving while paused so the view stays current.
type TickMsg struct {
	At time.Time
}

// tickInterval is the wall-clock gap between steps at rate ticks per second.
// A non-positive rate falls back to the default.
func tickInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = core.DefaultConfig().TickRate
	}
	return time.Second / time.Duration(rate)
}

// scheduleTick sends the next TickMsg after one tick interval.
func scheduleTick(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}
