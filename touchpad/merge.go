package touchpad

import "github.com/Zash60/snes-josc/api"

// Merge combines several input sources (touch, keyboard, gamepads) into
// one stream for next.
//
// A button is held while any source holds it: a down is always
// forwarded, an up only once no other source still holds the button.
// Directions are merged per axis and forwarded as net edges. When
// sources hold opposite directions the axis goes idle, so next never
// sees both directions of an axis held. Releases are forwarded before
// presses.
type Merge struct {
	next    Sink
	sources []*mergeSource
	net     map[api.ButtonID]bool
}

type mergeSource struct {
	m    *Merge
	held map[api.ButtonID]bool
}

// NewMerge creates a Merge forwarding to next.
func NewMerge(next Sink) *Merge {
	return &Merge{next: next, net: make(map[api.ButtonID]bool)}
}

// Source returns a new input to the merge.
func (m *Merge) Source() Sink {
	s := &mergeSource{m: m, held: make(map[api.ButtonID]bool)}
	m.sources = append(m.sources, s)
	return s
}

func (s *mergeSource) ButtonEvent(id api.ButtonID, down bool) {
	s.held[id] = down
	if id.IsDirection() {
		s.m.settle(id)
		return
	}
	if down || !s.m.held(id) {
		s.m.next.ButtonEvent(id, down)
	}
}

// held reports whether any source holds id.
func (m *Merge) held(id api.ButtonID) bool {
	for _, s := range m.sources {
		if s.held[id] {
			return true
		}
	}
	return false
}

// settle recomputes the axis of direction id and forwards the changes.
func (m *Merge) settle(id api.ButtonID) {
	pair := [2]api.ButtonID{id, id.Opposite()}
	var want [2]bool
	want[0] = m.held(pair[0]) && !m.held(pair[1])
	want[1] = m.held(pair[1]) && !m.held(pair[0])

	for i, dir := range pair {
		if m.net[dir] && !want[i] {
			m.net[dir] = false
			m.next.ButtonEvent(dir, false)
		}
	}
	for i, dir := range pair {
		if want[i] && !m.net[dir] {
			m.net[dir] = true
			m.next.ButtonEvent(dir, true)
		}
	}
}
