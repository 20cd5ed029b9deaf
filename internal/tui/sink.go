package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steve-rackham/azfleet/internal/engine"
)

// Sink forwards engine events into a running Bubbletea program. Program.Send
// is safe to call from any worker goroutine, so the sink needs no locking of
// its own.
type Sink struct {
	send func(tea.Msg)
}

var _ engine.Sink = (*Sink)(nil)

// NewSink wraps a program's Send function as an engine event sink.
func NewSink(send func(tea.Msg)) *Sink {
	return &Sink{send: send}
}

// HandleEvent forwards the event as a program message.
func (s *Sink) HandleEvent(evt engine.Event) {
	if s == nil || s.send == nil {
		return
	}
	s.send(EventMsg{Event: evt})
}
