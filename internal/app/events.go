package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buckleypaul/flashmon/internal/flash"
)

// EventMsg wraps one orchestrator event for the bubbletea update loop.
type EventMsg struct {
	Event flash.Event
}

// PumpEvents forwards orchestrator events into the running program. Run it
// in a goroutine; it exits with the process.
func PumpEvents(p *tea.Program, events <-chan flash.Event) {
	for ev := range events {
		p.Send(EventMsg{Event: ev})
	}
}
