package api

// ButtonID identifies a virtual gamepad control. The string value is the
// token delivered to the guest and is case-sensitive.
type ButtonID string

// Face, shoulder, system and turbo buttons.
const (
	ButtonA      ButtonID = "A"
	ButtonB      ButtonID = "B"
	ButtonX      ButtonID = "X"
	ButtonY      ButtonID = "Y"
	ButtonL      ButtonID = "L"
	ButtonR      ButtonID = "R"
	ButtonStart  ButtonID = "START"
	ButtonSelect ButtonID = "SELECT"
	ButtonTurbo  ButtonID = "TURBO"
)

// D-pad directions.
const (
	ButtonUp    ButtonID = "UP"
	ButtonDown  ButtonID = "DOWN"
	ButtonLeft  ButtonID = "LEFT"
	ButtonRight ButtonID = "RIGHT"
)

// Buttons lists every ButtonID in overlay order.
var Buttons = []ButtonID{
	ButtonA, ButtonB, ButtonX, ButtonY,
	ButtonL, ButtonR,
	ButtonStart, ButtonSelect,
	ButtonUp, ButtonDown, ButtonLeft, ButtonRight,
	ButtonTurbo,
}

var buttonSet = func() map[ButtonID]bool {
	m := make(map[ButtonID]bool, len(Buttons))
	for _, b := range Buttons {
		m[b] = true
	}
	return m
}()

// ParseButton converts a wire token to a ButtonID.
// Returns the button and true if the token names a known button.
func ParseButton(s string) (ButtonID, bool) {
	b := ButtonID(s)
	if !buttonSet[b] {
		return "", false
	}
	return b, true
}

// Valid reports whether b is one of the known buttons.
func (b ButtonID) Valid() bool {
	return buttonSet[b]
}

// IsDirection reports whether b is a d-pad direction.
func (b ButtonID) IsDirection() bool {
	switch b {
	case ButtonUp, ButtonDown, ButtonLeft, ButtonRight:
		return true
	}
	return false
}

// Opposite returns the direction on the other side of the same axis,
// or "" if b is not a direction.
func (b ButtonID) Opposite() ButtonID {
	switch b {
	case ButtonUp:
		return ButtonDown
	case ButtonDown:
		return ButtonUp
	case ButtonLeft:
		return ButtonRight
	case ButtonRight:
		return ButtonLeft
	}
	return ""
}
