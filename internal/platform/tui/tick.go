// Package tui provides the Bubble Tea frontends: a playable session, a
// live view of a training agent, and a browser for recorded training runs.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd schedules the next simulation tick. The command fires once;
// models re-arm it on every TickMsg to keep the loop going.
func tickCmd(rate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
