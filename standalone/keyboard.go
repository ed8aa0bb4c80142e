package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/touchpad"
)

// InputMapping binds buttons to keyboard keys and standard gamepad buttons.
type InputMapping struct {
	Keys    map[api.ButtonID]ebiten.Key
	Gamepad map[api.ButtonID]ebiten.StandardGamepadButton
}

// DefaultMapping returns the stock bindings. The SNES face layout maps to
// the keyboard as Y X on the top row and B A below.
func DefaultMapping() InputMapping {
	return InputMapping{
		Keys: map[api.ButtonID]ebiten.Key{
			api.ButtonB:      ebiten.KeyZ,
			api.ButtonA:      ebiten.KeyX,
			api.ButtonY:      ebiten.KeyA,
			api.ButtonX:      ebiten.KeyS,
			api.ButtonL:      ebiten.KeyQ,
			api.ButtonR:      ebiten.KeyW,
			api.ButtonStart:  ebiten.KeyEnter,
			api.ButtonSelect: ebiten.KeyBackspace,
			api.ButtonTurbo:  ebiten.KeySpace,
			api.ButtonUp:     ebiten.KeyArrowUp,
			api.ButtonDown:   ebiten.KeyArrowDown,
			api.ButtonLeft:   ebiten.KeyArrowLeft,
			api.ButtonRight:  ebiten.KeyArrowRight,
		},
		Gamepad: map[api.ButtonID]ebiten.StandardGamepadButton{
			api.ButtonB:      ebiten.StandardGamepadButtonRightBottom,
			api.ButtonA:      ebiten.StandardGamepadButtonRightRight,
			api.ButtonY:      ebiten.StandardGamepadButtonRightLeft,
			api.ButtonX:      ebiten.StandardGamepadButtonRightTop,
			api.ButtonL:      ebiten.StandardGamepadButtonFrontTopLeft,
			api.ButtonR:      ebiten.StandardGamepadButtonFrontTopRight,
			api.ButtonStart:  ebiten.StandardGamepadButtonCenterRight,
			api.ButtonSelect: ebiten.StandardGamepadButtonCenterLeft,
			api.ButtonTurbo:  ebiten.StandardGamepadButtonFrontBottomRight,
			api.ButtonUp:     ebiten.StandardGamepadButtonLeftTop,
			api.ButtonDown:   ebiten.StandardGamepadButtonLeftBottom,
			api.ButtonLeft:   ebiten.StandardGamepadButtonLeftLeft,
			api.ButtonRight:  ebiten.StandardGamepadButtonLeftRight,
		},
	}
}

// Host shortcuts, never bound to buttons
var reservedKeys = map[ebiten.Key]bool{
	ebiten.KeyEscape: true, // back to ROM browser
	ebiten.KeyF1:     true, // save state
	ebiten.KeyF3:     true, // load state
	ebiten.KeyF11:    true, // fullscreen
}

// Reserved reports whether key is a host shortcut.
func Reserved(key ebiten.Key) bool {
	return reservedKeys[key]
}

// dpadGeometry is the 3x3 grid held directions are mapped onto.
var dpadGeometry = touchpad.Geometry{Width: 3, Height: 3}

// dpadPoint converts held directions to a point in dpadGeometry. Opposite
// directions held together cancel to the center.
func dpadPoint(left, right, up, down bool) touchpad.Point {
	p := touchpad.Point{X: 1.5, Y: 1.5}
	switch {
	case left && !right:
		p.X = 0.5
	case right && !left:
		p.X = 2.5
	}
	switch {
	case up && !down:
		p.Y = 0.5
	case down && !up:
		p.Y = 2.5
	}
	return p
}

// heldController drives button and d-pad controllers from held-state
// polling. Directions go through a DPad as a synthetic contact, so keys
// and gamepads get the same release-before-press ordering as touch.
type heldController struct {
	buttons map[api.ButtonID]*touchpad.Button
	dpad    *touchpad.DPad
	held    map[api.ButtonID]bool
	contact bool
}

func newHeldController(sink touchpad.Sink) *heldController {
	c := &heldController{
		buttons: make(map[api.ButtonID]*touchpad.Button),
		dpad:    touchpad.NewDPad(sink),
		held:    make(map[api.ButtonID]bool),
	}
	for _, id := range api.Buttons {
		if !id.IsDirection() {
			c.buttons[id] = touchpad.NewButton(id, sink)
		}
	}
	return c
}

// update applies one poll. pressed reports whether a button is held.
func (c *heldController) update(pressed func(api.ButtonID) bool) {
	for id, b := range c.buttons {
		now := pressed(id)
		if now == c.held[id] {
			continue
		}
		c.held[id] = now
		if now {
			b.Handle(touchpad.SignalDown)
		} else {
			b.Handle(touchpad.SignalUp)
		}
	}

	left, right := pressed(api.ButtonLeft), pressed(api.ButtonRight)
	up, down := pressed(api.ButtonUp), pressed(api.ButtonDown)
	anyHeld := left || right || up || down
	p := dpadPoint(left, right, up, down)
	switch {
	case anyHeld && !c.contact:
		c.contact = true
		c.dpad.Handle(touchpad.SignalDown, p, dpadGeometry)
	case anyHeld:
		c.dpad.Handle(touchpad.SignalMove, p, dpadGeometry)
	case c.contact:
		c.contact = false
		c.dpad.Handle(touchpad.SignalUp, p, dpadGeometry)
	}
}

// release lets go of everything, e.g. on focus loss.
func (c *heldController) release() {
	for id, b := range c.buttons {
		if c.held[id] {
			c.held[id] = false
			b.Handle(touchpad.SignalCancel)
		}
	}
	if c.contact {
		c.contact = false
		c.dpad.Handle(touchpad.SignalCancel, touchpad.Point{}, dpadGeometry)
	}
}

// KeyboardInput polls the keyboard and connected gamepads.
type KeyboardInput struct {
	mapping InputMapping
	ctl     *heldController
	pads    []ebiten.GamepadID
}

// NewKeyboardInput creates keyboard and gamepad input emitting to sink.
func NewKeyboardInput(sink touchpad.Sink, mapping InputMapping) *KeyboardInput {
	return &KeyboardInput{mapping: mapping, ctl: newHeldController(sink)}
}

// Update polls once per frame.
func (k *KeyboardInput) Update() {
	k.pads = ebiten.AppendGamepadIDs(k.pads[:0])
	k.ctl.update(k.pressed)
}

// Release lets go of every held button.
func (k *KeyboardInput) Release() {
	k.ctl.release()
}

func (k *KeyboardInput) pressed(id api.ButtonID) bool {
	if key, ok := k.mapping.Keys[id]; ok && !Reserved(key) && ebiten.IsKeyPressed(key) {
		return true
	}
	btn, ok := k.mapping.Gamepad[id]
	if !ok {
		return false
	}
	for _, pad := range k.pads {
		if ebiten.IsStandardGamepadLayoutAvailable(pad) && ebiten.IsStandardGamepadButtonPressed(pad, btn) {
			return true
		}
	}
	return false
}
