package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Zash60/snes-josc/touchpad"
)

// mouseID is the pointer id of the left mouse button. Touch ids are >= 0.
const mouseID = -1

// pointerTracker turns per-frame pointer snapshots into surface contacts.
type pointerTracker struct {
	live    map[int]touchpad.Point
	touches []ebiten.TouchID
}

// apply compares the pointers down this frame with the previous frame.
// Lifted pointers end first so a finger landing on a control in the same
// frame another one left it still gets it.
func (t *pointerTracker) apply(s *touchpad.Surface, now map[int]touchpad.Point) {
	for id := range t.live {
		if _, ok := now[id]; !ok {
			s.End(id)
		}
	}
	for id, p := range now {
		if _, ok := t.live[id]; ok {
			s.Move(id, p)
		} else {
			s.Begin(id, p)
		}
	}
	t.live = now
}

// reset forgets every pointer without signalling; the caller cancels the
// surface separately.
func (t *pointerTracker) reset() {
	t.live = nil
}

// sample reads touches and the left mouse button from Ebiten.
func (t *pointerTracker) sample() map[int]touchpad.Point {
	now := make(map[int]touchpad.Point, len(t.live)+1)
	t.touches = ebiten.AppendTouchIDs(t.touches[:0])
	for _, id := range t.touches {
		x, y := ebiten.TouchPosition(id)
		now[int(id)] = touchpad.Point{X: float64(x), Y: float64(y)}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		now[mouseID] = touchpad.Point{X: float64(x), Y: float64(y)}
	}
	return now
}

// Update samples and applies one frame.
func (t *pointerTracker) Update(s *touchpad.Surface) {
	t.apply(s, t.sample())
}
