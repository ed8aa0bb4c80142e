package touchpad

import "github.com/Zash60/snes-josc/api"

// Point is a pointer position relative to a control's top-left corner.
type Point struct {
	X, Y float64
}

// Geometry is the size of a control, sampled when the gesture is handled.
type Geometry struct {
	Width, Height float64
}

// axisState is the tagged state of one d-pad axis.
type axisState int8

const (
	axisIdle     axisState = iota // no direction held
	axisNegative                  // LEFT or UP held
	axisPositive                  // RIGHT or DOWN held
)

// axis tracks one pair of opposite directions. At most one of them is
// held at any time because the state can only name one.
type axis struct {
	negative api.ButtonID
	positive api.ButtonID
	state    axisState
}

// active returns the held direction, or "" when idle.
func (a *axis) active() api.ButtonID {
	switch a.state {
	case axisNegative:
		return a.negative
	case axisPositive:
		return a.positive
	}
	return ""
}

// sample applies one zone classification to the axis.
func (a *axis) sample(inNegative, inPositive bool, sink Sink) {
	switch a.state {
	case axisIdle:
		if inNegative {
			a.press(axisNegative, sink)
		} else if inPositive {
			a.press(axisPositive, sink)
		}
	case axisNegative:
		if inNegative {
			return
		}
		a.release(sink)
		if inPositive {
			a.press(axisPositive, sink)
		}
	case axisPositive:
		if inPositive {
			return
		}
		a.release(sink)
		if inNegative {
			a.press(axisNegative, sink)
		}
	}
}

func (a *axis) press(state axisState, sink Sink) {
	a.state = state
	sink.ButtonEvent(a.active(), true)
}

// release emits a release for the held direction, if any, and goes idle.
func (a *axis) release(sink Sink) {
	if a.state == axisIdle {
		return
	}
	id := a.active()
	a.state = axisIdle
	sink.ButtonEvent(id, false)
}

// DPad converts one evolving pointer position over a rectangular pad into
// horizontal and vertical direction transitions.
//
// Each axis is split in thirds: the first third is LEFT (UP), the last
// third is RIGHT (DOWN) and the middle third is a dead zone. Corners give
// diagonals. Transitions are edge-triggered; when a pointer slides across
// the dead zone in one sample, the old direction is released before the
// new one is pressed.
type DPad struct {
	sink       Sink
	horizontal axis
	vertical   axis
}

// NewDPad creates a d-pad controller emitting to sink.
func NewDPad(sink Sink) *DPad {
	return &DPad{
		sink:       sink,
		horizontal: axis{negative: api.ButtonLeft, positive: api.ButtonRight},
		vertical:   axis{negative: api.ButtonUp, positive: api.ButtonDown},
	}
}

// Handle processes one contact signal at p over a pad of size g.
// Position and geometry are ignored for up and cancel.
func (d *DPad) Handle(sig Signal, p Point, g Geometry) {
	switch sig {
	case SignalDown, SignalMove:
		d.Sample(p, g)
	case SignalUp, SignalCancel:
		d.Release()
	}
}

// Sample recomputes zone membership for a pointer-down or pointer-move.
func (d *DPad) Sample(p Point, g Geometry) {
	left, right, up, down := classify(p, g)
	d.horizontal.sample(left, right, d.sink)
	d.vertical.sample(up, down, d.sink)
}

// Release ends the gesture: every held direction is released, horizontal
// first, and both axes go idle. Used for both pointer-up and cancel.
func (d *DPad) Release() {
	d.horizontal.release(d.sink)
	d.vertical.release(d.sink)
}

// Active returns the held horizontal and vertical directions ("" if none).
func (d *DPad) Active() (horizontal, vertical api.ButtonID) {
	return d.horizontal.active(), d.vertical.active()
}

// classify returns zone membership for p. An axis with a non-positive (or
// NaN) extent never reports a zone.
func classify(p Point, g Geometry) (left, right, up, down bool) {
	if g.Width > 0 {
		left = p.X < g.Width/3
		right = p.X > g.Width*2/3
	}
	if g.Height > 0 {
		up = p.Y < g.Height/3
		down = p.Y > g.Height*2/3
	}
	return left, right, up, down
}
