package standalone

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/standalone/style"
	"github.com/Zash60/snes-josc/touchpad"
)

// Names of the non-button controls on the pad surface
const (
	ctlDPad = "dpad"
	ctlSave = "save"
	ctlLoad = "load"
	ctlMenu = "menu"
)

// faceButtons are drawn round, everything else as a rounded bar.
var faceButtons = map[api.ButtonID]bool{
	api.ButtonA: true, api.ButtonB: true, api.ButtonX: true, api.ButtonY: true,
}

// action is a tap control: fn runs when a contact that started on it ends.
// A cancelled contact does nothing.
type action struct {
	label string
	fn    func()
	held  bool
}

func (a *action) Handle(sig touchpad.Signal, _ touchpad.Point, _ touchpad.Geometry) {
	switch sig {
	case touchpad.SignalDown:
		a.held = true
	case touchpad.SignalUp:
		if a.held && a.fn != nil {
			a.fn()
		}
		a.held = false
	case touchpad.SignalCancel:
		a.held = false
	}
}

// padLayout places every control for a w x h window. Sizes derive from a
// 16:9 grid unit so the pad keeps its proportions on any window; the
// returned status rect is the free area in the middle.
func padLayout(w, h float64) (rects map[string]touchpad.Rect, status touchpad.Rect) {
	u := math.Min(w/16, h/9)
	if !(u > 0) {
		return map[string]touchpad.Rect{}, touchpad.Rect{}
	}
	centered := func(cx, cy, rw, rh float64) touchpad.Rect {
		return touchpad.Rect{X: cx - rw/2, Y: cy - rh/2, W: rw, H: rh}
	}

	rects = map[string]touchpad.Rect{
		ctlDPad: {X: u, Y: h - 5*u, W: 4 * u, H: 4 * u},

		string(api.ButtonL): {X: u / 2, Y: u / 2, W: 3 * u, H: u},
		string(api.ButtonR): {X: w - 3.5*u, Y: u / 2, W: 3 * u, H: u},

		string(api.ButtonSelect): centered(w/2-1.5*u, h-1.1*u, 2.2*u, 0.8*u),
		string(api.ButtonStart):  centered(w/2+1.5*u, h-1.1*u, 2.2*u, 0.8*u),
		string(api.ButtonTurbo):  centered(w/2, h-2.4*u, 2.2*u, 0.9*u),

		ctlSave: centered(w/2-1.5*u, 0.9*u, 2.2*u, 0.8*u),
		ctlLoad: centered(w/2+1.5*u, 0.9*u, 2.2*u, 0.8*u),
		ctlMenu: centered(w/2, h-3.7*u, 2.2*u, 0.8*u),
	}

	cx, cy, step, size := w-3*u, h-3*u, 1.4*u, 1.3*u
	rects[string(api.ButtonX)] = centered(cx, cy-step, size, size)
	rects[string(api.ButtonB)] = centered(cx, cy+step, size, size)
	rects[string(api.ButtonY)] = centered(cx-step, cy, size, size)
	rects[string(api.ButtonA)] = centered(cx+step, cy, size, size)

	status = touchpad.Rect{X: w/2 - 2.5*u, Y: 1.8 * u, W: 5 * u, H: 2.4 * u}
	return rects, status
}

// Gamepad is the on-screen SNES controller. It owns the touch surface and
// the controllers placed on it.
type Gamepad struct {
	surface *touchpad.Surface
	dpad    *touchpad.DPad
	buttons map[api.ButtonID]*touchpad.Button
	actions map[string]*action

	rects  map[string]touchpad.Rect
	status touchpad.Rect
	width  int
	height int

	opacity float64
	haptic  bool
}

// GamepadActions are the host-side taps on the pad.
type GamepadActions struct {
	Save func()
	Load func()
	Menu func()
}

// NewGamepad creates a pad emitting button transitions to sink.
func NewGamepad(sink touchpad.Sink, acts GamepadActions, opacity float64, haptic bool) *Gamepad {
	g := &Gamepad{
		surface: touchpad.NewSurface(),
		dpad:    touchpad.NewDPad(sink),
		buttons: make(map[api.ButtonID]*touchpad.Button),
		actions: map[string]*action{
			ctlSave: {label: "SAVE", fn: acts.Save},
			ctlLoad: {label: "LOAD", fn: acts.Load},
			ctlMenu: {label: "MENU", fn: acts.Menu},
		},
		opacity: opacity,
		haptic:  haptic,
	}
	for _, id := range api.Buttons {
		if id.IsDirection() {
			continue
		}
		g.buttons[id] = touchpad.NewButton(id, sink)
	}
	return g
}

// Surface returns the touch surface controls are placed on.
func (g *Gamepad) Surface() *touchpad.Surface {
	return g.surface
}

// Layout places controls for the window size. Live pointers stay captured
// by their controls across a relayout.
func (g *Gamepad) Layout(width, height int) {
	if width == g.width && height == g.height && g.rects != nil {
		return
	}
	g.width, g.height = width, height
	g.rects, g.status = padLayout(float64(width), float64(height))

	for name, r := range g.rects {
		switch {
		case name == ctlDPad:
			g.surface.Place(name, r, g.dpad)
		case g.actions[name] != nil:
			g.surface.Place(name, r, g.actions[name])
		default:
			if b := g.buttons[api.ButtonID(name)]; b != nil {
				g.surface.Place(name, r, touchpad.ButtonControl{Button: b})
			}
		}
	}
}

// StatusRect returns the free area between the controls.
func (g *Gamepad) StatusRect() touchpad.Rect {
	return g.status
}

// ReleaseAll cancels every live contact, releasing whatever it held.
func (g *Gamepad) ReleaseAll() {
	g.surface.CancelAll()
}

// SetAppearance updates opacity and press highlighting.
func (g *Gamepad) SetAppearance(opacity float64, haptic bool) {
	g.opacity = opacity
	g.haptic = haptic
}

func (g *Gamepad) fill(pressed bool) color.NRGBA {
	if pressed && g.haptic {
		return style.WithAlpha(style.PadPressed, math.Min(1, g.opacity+0.3))
	}
	return style.WithAlpha(style.PadFace, g.opacity)
}

// Draw renders every control.
func (g *Gamepad) Draw(screen *ebiten.Image) {
	if r, ok := g.rects[ctlDPad]; ok {
		g.drawDPad(screen, r)
	}
	for id, b := range g.buttons {
		r, ok := g.rects[string(id)]
		if !ok {
			continue
		}
		if faceButtons[id] {
			g.drawRound(screen, r, string(id), b.Pressed())
		} else {
			g.drawBar(screen, r, string(id), b.Pressed())
		}
	}
	for name, a := range g.actions {
		if r, ok := g.rects[name]; ok {
			g.drawBar(screen, r, a.label, a.held)
		}
	}
}

func (g *Gamepad) drawDPad(screen *ebiten.Image, r touchpad.Rect) {
	horizontal, vertical := g.dpad.Active()
	third := r.W / 3
	arm := func(col, row float64, id api.ButtonID) {
		pressed := id != "" && (id == horizontal || id == vertical)
		vector.DrawFilledRect(screen,
			float32(r.X+col*third), float32(r.Y+row*r.H/3),
			float32(third), float32(r.H/3),
			g.fill(pressed), true)
	}
	arm(1, 0, api.ButtonUp)
	arm(0, 1, api.ButtonLeft)
	arm(1, 1, "")
	arm(2, 1, api.ButtonRight)
	arm(1, 2, api.ButtonDown)
}

func (g *Gamepad) drawRound(screen *ebiten.Image, r touchpad.Rect, label string, pressed bool) {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r.W/2), g.fill(pressed), true)
	drawLabel(screen, label, cx, cy, *style.LargeFontFace())
}

func (g *Gamepad) drawBar(screen *ebiten.Image, r touchpad.Rect, label string, pressed bool) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), g.fill(pressed), true)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, style.WithAlpha(style.Border, g.opacity), true)
	drawLabel(screen, label, r.X+r.W/2, r.Y+r.H/2, *style.FontFace())
}

func drawLabel(screen *ebiten.Image, label string, cx, cy float64, face text.Face) {
	if face == nil {
		return
	}
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(cx, cy)
	opts.PrimaryAlign = text.AlignCenter
	opts.SecondaryAlign = text.AlignCenter
	opts.ColorScale.ScaleWithColor(style.Text)
	text.Draw(screen, label, face, opts)
}
