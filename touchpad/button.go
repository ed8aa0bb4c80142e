package touchpad

import "github.com/Zash60/snes-josc/api"

// Signal is a raw contact signal for one control.
type Signal int

const (
	SignalDown   Signal = iota // contact started
	SignalMove                 // contact moved
	SignalUp                   // contact ended
	SignalCancel               // gesture aborted (pointer captured elsewhere, focus lost)
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalDown:
		return "down"
	case SignalMove:
		return "move"
	case SignalUp:
		return "up"
	case SignalCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Button maps one physical control to one logical button.
//
// Every down, up or cancel signal emits exactly one transition, even when
// it repeats the previous one. Cancel is treated exactly like up. Move
// signals emit nothing.
type Button struct {
	id      api.ButtonID
	sink    Sink
	pressed bool
}

// NewButton creates a button controller emitting to sink.
func NewButton(id api.ButtonID, sink Sink) *Button {
	return &Button{id: id, sink: sink}
}

// ID returns the logical button.
func (b *Button) ID() api.ButtonID {
	return b.id
}

// Pressed returns the last emitted value.
func (b *Button) Pressed() bool {
	return b.pressed
}

// Handle processes one contact signal.
func (b *Button) Handle(sig Signal) {
	switch sig {
	case SignalDown:
		b.emit(true)
	case SignalUp, SignalCancel:
		b.emit(false)
	}
}

func (b *Button) emit(down bool) {
	b.pressed = down
	b.sink.ButtonEvent(b.id, down)
}
