package touchpad

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. Degenerate rects contain nothing.
func (r Rect) Contains(p Point) bool {
	return r.W > 0 && r.H > 0 &&
		p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

// Local converts p to coordinates relative to r's top-left corner.
func (r Rect) Local(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

// Geometry returns the size of r.
func (r Rect) Geometry() Geometry {
	return Geometry{Width: r.W, Height: r.H}
}

// Control is anything placed on a Surface that consumes contact signals.
// p is local to the control's rect.
type Control interface {
	Handle(sig Signal, p Point, g Geometry)
}

// ButtonControl adapts a Button to the Control interface.
type ButtonControl struct {
	*Button
}

// Handle forwards the signal, ignoring position.
func (c ButtonControl) Handle(sig Signal, _ Point, _ Geometry) {
	c.Button.Handle(sig)
}

type placed struct {
	name    string
	rect    Rect
	control Control
}

// Surface routes raw pointers to the controls they landed on.
//
// A pointer is captured by the control it first touched and keeps feeding
// that control until it ends, even when it slides outside the rect. A
// control accepts one pointer at a time; extra pointers on an already
// captured control are ignored.
type Surface struct {
	controls []*placed
	captured map[int]*placed
	owner    map[*placed]int
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{
		captured: make(map[int]*placed),
		owner:    make(map[*placed]int),
	}
}

// Place adds a control, or moves an existing one with the same name.
// Later placements win when rects overlap.
func (s *Surface) Place(name string, r Rect, c Control) {
	for _, pc := range s.controls {
		if pc.name == name {
			pc.rect = r
			pc.control = c
			return
		}
	}
	s.controls = append(s.controls, &placed{name: name, rect: r, control: c})
}

// Bounds returns the rect for a named control.
func (s *Surface) Bounds(name string) (Rect, bool) {
	for _, pc := range s.controls {
		if pc.name == name {
			return pc.rect, true
		}
	}
	return Rect{}, false
}

// Captured reports whether the named control currently owns a pointer.
func (s *Surface) Captured(name string) bool {
	for pc := range s.owner {
		if pc.name == name {
			return true
		}
	}
	return false
}

// Begin starts pointer id at p. It returns false if p hit no free control.
func (s *Surface) Begin(id int, p Point) bool {
	if _, ok := s.captured[id]; ok {
		s.Move(id, p)
		return true
	}
	for i := len(s.controls) - 1; i >= 0; i-- {
		pc := s.controls[i]
		if !pc.rect.Contains(p) {
			continue
		}
		if _, busy := s.owner[pc]; busy {
			return false
		}
		s.captured[id] = pc
		s.owner[pc] = id
		pc.control.Handle(SignalDown, pc.rect.Local(p), pc.rect.Geometry())
		return true
	}
	return false
}

// Move feeds a new position for pointer id to its captured control.
func (s *Surface) Move(id int, p Point) {
	pc, ok := s.captured[id]
	if !ok {
		return
	}
	pc.control.Handle(SignalMove, pc.rect.Local(p), pc.rect.Geometry())
}

// End finishes pointer id normally.
func (s *Surface) End(id int) {
	s.finish(id, SignalUp)
}

// Cancel aborts pointer id.
func (s *Surface) Cancel(id int) {
	s.finish(id, SignalCancel)
}

// CancelAll aborts every live pointer, e.g. when the window loses focus.
func (s *Surface) CancelAll() {
	for id := range s.captured {
		s.finish(id, SignalCancel)
	}
}

// Active returns the ids of all live pointers.
func (s *Surface) Active() []int {
	ids := make([]int, 0, len(s.captured))
	for id := range s.captured {
		ids = append(ids, id)
	}
	return ids
}

func (s *Surface) finish(id int, sig Signal) {
	pc, ok := s.captured[id]
	if !ok {
		return
	}
	delete(s.captured, id)
	delete(s.owner, pc)
	pc.control.Handle(sig, Point{}, pc.rect.Geometry())
}
