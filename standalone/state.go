package standalone

// AppState represents the current state of the application
type AppState int

const (
	// StateLibrary is the ROM browser
	StateLibrary AppState = iota
	// StateError shows a startup error (corrupted or invalid config)
	StateError
	// StatePlaying shows the on-screen gamepad for the launched game
	StatePlaying
)

// String returns the string representation of the state
func (s AppState) String() string {
	switch s {
	case StateLibrary:
		return "Library"
	case StateError:
		return "Error"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}
