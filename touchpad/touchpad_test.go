package touchpad

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/Zash60/snes-josc/api"
)

type event struct {
	id   api.ButtonID
	down bool
}

func (e event) String() string {
	if e.down {
		return fmt.Sprintf("%s+", e.id)
	}
	return fmt.Sprintf("%s-", e.id)
}

type recorder struct {
	events []event
}

func (r *recorder) ButtonEvent(id api.ButtonID, down bool) {
	r.events = append(r.events, event{id, down})
}

func (r *recorder) String() string {
	parts := make([]string, len(r.events))
	for i, e := range r.events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

func (r *recorder) reset() {
	r.events = nil
}

func TestButtonEmitsOnEverySignal(t *testing.T) {
	rec := &recorder{}
	b := NewButton(api.ButtonA, rec)

	b.Handle(SignalDown)
	b.Handle(SignalMove)
	b.Handle(SignalUp)
	b.Handle(SignalUp)
	b.Handle(SignalDown)
	b.Handle(SignalDown)
	b.Handle(SignalCancel)

	want := "A+ A- A- A+ A+ A-"
	if got := rec.String(); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
	if b.Pressed() {
		t.Error("Pressed() = true after cancel")
	}
}

func TestButtonCancelMatchesUp(t *testing.T) {
	up := &recorder{}
	cancel := &recorder{}
	NewButton(api.ButtonStart, up).Handle(SignalUp)
	NewButton(api.ButtonStart, cancel).Handle(SignalCancel)

	if up.String() != cancel.String() {
		t.Errorf("up = %q, cancel = %q", up, cancel)
	}
}

func TestDPadScenario(t *testing.T) {
	rec := &recorder{}
	d := NewDPad(rec)
	g := Geometry{Width: 300, Height: 300}

	d.Handle(SignalDown, Point{X: 50, Y: 50}, g)
	if got, want := rec.String(), "LEFT+ UP+"; got != want {
		t.Fatalf("down(50,50) = %q, want %q", got, want)
	}

	rec.reset()
	d.Handle(SignalMove, Point{X: 250, Y: 50}, g)
	if got, want := rec.String(), "LEFT- RIGHT+"; got != want {
		t.Fatalf("move(250,50) = %q, want %q", got, want)
	}

	rec.reset()
	d.Handle(SignalMove, Point{X: 150, Y: 150}, g)
	if got, want := rec.String(), "RIGHT- UP-"; got != want {
		t.Fatalf("move(150,150) = %q, want %q", got, want)
	}

	rec.reset()
	d.Handle(SignalUp, Point{}, g)
	if len(rec.events) != 0 {
		t.Fatalf("up after dead zone = %q, want nothing", rec)
	}
}

func TestDPadSampleTransitions(t *testing.T) {
	g := Geometry{Width: 90, Height: 90}

	tests := []struct {
		name  string
		start []Point
		next  Point
		want  string
	}{
		{"idle to left", nil, Point{10, 45}, "LEFT+"},
		{"idle to down", nil, Point{45, 80}, "DOWN+"},
		{"idle to diagonal", nil, Point{80, 80}, "RIGHT+ DOWN+"},
		{"idle stays in dead zone", nil, Point{45, 45}, ""},
		{"held stays held", []Point{{10, 45}}, Point{5, 40}, ""},
		{"left to right jump", []Point{{10, 45}}, Point{85, 45}, "LEFT- RIGHT+"},
		{"down to up jump", []Point{{45, 85}}, Point{45, 5}, "DOWN- UP+"},
		{"left to dead zone", []Point{{10, 45}}, Point{45, 45}, "LEFT-"},
		{"diagonal to single", []Point{{10, 10}}, Point{10, 45}, "UP-"},
		{"diagonal flip both", []Point{{10, 10}}, Point{85, 85}, "LEFT- RIGHT+ UP- DOWN+"},
		{"boundary is dead", nil, Point{30, 60}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d := NewDPad(rec)
			for _, p := range tt.start {
				d.Sample(p, g)
			}
			rec.reset()
			d.Sample(tt.next, g)
			if got := rec.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDPadAxisExclusion(t *testing.T) {
	rec := &recorder{}
	state := NewState(rec)
	d := NewDPad(state)
	g := Geometry{Width: 120, Height: 60}

	path := []Point{
		{0, 0}, {119, 0}, {0, 59}, {60, 30}, {119, 59}, {1, 1}, {119, 1}, {60, 59}, {2, 30},
	}
	for _, p := range path {
		d.Sample(p, g)
		if state.Pressed(api.ButtonLeft) && state.Pressed(api.ButtonRight) {
			t.Fatalf("LEFT and RIGHT both held after %v", p)
		}
		if state.Pressed(api.ButtonUp) && state.Pressed(api.ButtonDown) {
			t.Fatalf("UP and DOWN both held after %v", p)
		}
	}
}

func TestDPadRandomWalkCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rec := &recorder{}
	d := NewDPad(rec)
	g := Geometry{Width: 100, Height: 100}
	net := make(map[api.ButtonID]int)
	seen := 0
	contact := false

	for step := 0; step < 5000; step++ {
		var sig Signal
		switch n := rng.Intn(10); {
		case n == 0:
			sig = SignalUp
		case n == 1:
			sig = SignalCancel
		case contact:
			sig = SignalMove
		default:
			sig = SignalDown
		}
		contact = sig == SignalDown || sig == SignalMove
		p := Point{X: rng.Float64()*140 - 20, Y: rng.Float64()*140 - 20}
		d.Handle(sig, p, g)

		for _, e := range rec.events[seen:] {
			if e.down {
				net[e.id]++
			} else {
				net[e.id]--
			}
		}
		seen = len(rec.events)

		for _, id := range []api.ButtonID{api.ButtonLeft, api.ButtonRight, api.ButtonUp, api.ButtonDown} {
			if net[id] < 0 || net[id] > 1 {
				t.Fatalf("step %d (%v at %v): %s pressed minus released = %d", step, sig, p, id, net[id])
			}
		}
		if net[api.ButtonLeft]+net[api.ButtonRight] > 1 || net[api.ButtonUp]+net[api.ButtonDown] > 1 {
			t.Fatalf("step %d (%v at %v): opposite directions held: %v", step, sig, p, net)
		}
		if !contact {
			for id, n := range net {
				if n != 0 {
					t.Fatalf("step %d: %s still held after %v", step, id, sig)
				}
			}
		}
		h, v := d.Active()
		if (h != "") != (net[api.ButtonLeft]+net[api.ButtonRight] == 1) ||
			(v != "") != (net[api.ButtonUp]+net[api.ButtonDown] == 1) {
			t.Fatalf("step %d: Active() = %q, %q but events give %v", step, h, v, net)
		}
	}
}

func TestDPadFinalizeReleasesAll(t *testing.T) {
	for _, sig := range []Signal{SignalUp, SignalCancel} {
		t.Run(sig.String(), func(t *testing.T) {
			rec := &recorder{}
			state := NewState(rec)
			d := NewDPad(state)
			g := Geometry{Width: 100, Height: 100}

			d.Handle(SignalDown, Point{90, 90}, g)
			d.Handle(SignalMove, Point{5, 95}, g)
			rec.reset()

			d.Handle(sig, Point{}, g)
			if got, want := rec.String(), "LEFT- DOWN-"; got != want {
				t.Errorf("finalize = %q, want %q", got, want)
			}
			if held := state.Snapshot(); len(held) != 0 {
				t.Errorf("held after finalize = %v", held)
			}
			h, v := d.Active()
			if h != "" || v != "" {
				t.Errorf("Active() = %q, %q", h, v)
			}

			rec.reset()
			d.Handle(sig, Point{}, g)
			if len(rec.events) != 0 {
				t.Errorf("second finalize emitted %q", rec)
			}
		})
	}
}

func TestDPadDegenerateGeometry(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		g    Geometry
		p    Point
		want string
	}{
		{"zero size", Geometry{0, 0}, Point{-1, -1}, ""},
		{"zero width", Geometry{0, 90}, Point{-5, 10}, "UP+"},
		{"zero height", Geometry{90, 0}, Point{85, 500}, "RIGHT+"},
		{"negative size", Geometry{-30, -30}, Point{-100, -100}, ""},
		{"nan size", Geometry{nan, nan}, Point{1, 1}, ""},
		{"nan point", Geometry{90, 90}, Point{nan, nan}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d := NewDPad(rec)
			d.Handle(SignalDown, tt.p, tt.g)
			d.Handle(SignalMove, tt.p, tt.g)
			if got := rec.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuestSink(t *testing.T) {
	var got []string
	g := api.GuestFunc(func(event string, args ...any) {
		got = append(got, fmt.Sprintf("%s%v", event, args))
	})
	b := NewButton(api.ButtonL, GuestSink(g))
	b.Handle(SignalDown)
	b.Handle(SignalUp)

	want := []string{
		"androidButtonEvent[L true]",
		"androidButtonEvent[L false]",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("delivered %v, want %v", got, want)
	}
}

func TestSurfaceRouting(t *testing.T) {
	rec := &recorder{}
	s := NewSurface()
	s.Place("dpad", Rect{X: 0, Y: 100, W: 90, H: 90}, NewDPad(rec))
	s.Place("a", Rect{X: 200, Y: 100, W: 40, H: 40}, ButtonControl{NewButton(api.ButtonA, rec)})

	if !s.Begin(1, Point{5, 105}) {
		t.Fatal("Begin on dpad missed")
	}
	if !s.Begin(2, Point{210, 110}) {
		t.Fatal("Begin on A missed")
	}
	if s.Begin(3, Point{220, 120}) {
		t.Error("second pointer on A should be ignored")
	}
	if s.Begin(4, Point{150, 10}) {
		t.Error("pointer on empty space should miss")
	}

	// Captured pointers keep feeding their control outside the rect.
	s.Move(1, Point{300, 105})
	s.End(2)
	s.End(3)

	if got, want := rec.String(), "LEFT+ UP+ A+ LEFT- RIGHT+ A-"; got != want {
		t.Fatalf("events = %q, want %q", got, want)
	}

	rec.reset()
	s.CancelAll()
	if got, want := rec.String(), "RIGHT- UP-"; got != want {
		t.Errorf("CancelAll = %q, want %q", got, want)
	}
	if len(s.Active()) != 0 {
		t.Errorf("Active() = %v after CancelAll", s.Active())
	}
}

func TestSurfacePlaceReplaces(t *testing.T) {
	rec := &recorder{}
	s := NewSurface()
	b := ButtonControl{NewButton(api.ButtonB, rec)}
	s.Place("b", Rect{X: 0, Y: 0, W: 10, H: 10}, b)
	s.Place("b", Rect{X: 50, Y: 50, W: 10, H: 10}, b)

	if s.Begin(1, Point{5, 5}) {
		t.Error("old rect still hit")
	}
	if !s.Begin(1, Point{55, 55}) {
		t.Error("new rect missed")
	}
	if !s.Captured("b") {
		t.Error("Captured(b) = false")
	}
	r, ok := s.Bounds("b")
	if !ok || r.X != 50 {
		t.Errorf("Bounds = %v, %v", r, ok)
	}
}

func TestRectContainsDegenerate(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 0, H: 10}
	if r.Contains(Point{0, 0}) {
		t.Error("zero-width rect contains a point")
	}
}
