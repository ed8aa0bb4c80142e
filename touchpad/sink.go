// Package touchpad turns pointer contact on the on-screen gamepad into
// edge-triggered button events.
//
// Every event produced here goes to a Sink. The Button and DPad
// controllers are its only producers, and they run on the UI goroutine.
package touchpad

import (
	"sync"

	"github.com/Zash60/snes-josc/api"
)

// Sink receives button transitions. Implementations must not block.
type Sink interface {
	ButtonEvent(id api.ButtonID, down bool)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(id api.ButtonID, down bool)

// ButtonEvent calls f(id, down).
func (f SinkFunc) ButtonEvent(id api.ButtonID, down bool) {
	f(id, down)
}

// GuestSink forwards button transitions to the guest as button events.
func GuestSink(g api.Guest) Sink {
	return SinkFunc(func(id api.ButtonID, down bool) {
		g.Deliver(api.EventButton, string(id), down)
	})
}

// State records the pressed state of each button from the transitions
// passing through it, then forwards every transition to the next sink.
// It is the only owner of the session's button state; nothing assigns
// to it directly.
type State struct {
	mu      sync.Mutex
	next    Sink
	pressed map[api.ButtonID]bool
}

// NewState creates a State forwarding to next. next may be nil.
func NewState(next Sink) *State {
	return &State{
		next:    next,
		pressed: make(map[api.ButtonID]bool),
	}
}

// ButtonEvent records the transition and forwards it.
func (s *State) ButtonEvent(id api.ButtonID, down bool) {
	s.mu.Lock()
	if down {
		s.pressed[id] = true
	} else {
		delete(s.pressed, id)
	}
	s.mu.Unlock()

	if s.next != nil {
		s.next.ButtonEvent(id, down)
	}
}

// Pressed reports whether id is currently held.
func (s *State) Pressed(id api.ButtonID) bool {
	s.mu.Lock()
	p := s.pressed[id]
	s.mu.Unlock()
	return p
}

// Snapshot returns a copy of the currently held buttons.
func (s *State) Snapshot() map[api.ButtonID]bool {
	s.mu.Lock()
	out := make(map[api.ButtonID]bool, len(s.pressed))
	for id := range s.pressed {
		out[id] = true
	}
	s.mu.Unlock()
	return out
}
