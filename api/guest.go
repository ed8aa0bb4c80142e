package api

// Host to guest events.
const (
	EventButton       = "androidButtonEvent"      // (buttonId string, isDown bool)
	EventTriggerSave  = "triggerSaveState"        // ()
	EventTriggerLoad  = "triggerLoadState"        // ()
	EventReceiveState = "receiveStateFromAndroid" // (payload string)
	EventLaunchGame   = "launchGame"              // (payload string, displayName string)
)

// Guest to host calls.
const (
	CallSaveState = "saveStateToDisk"   // (payload string, displayName string)
	CallLoadState = "loadStateFromDisk" // (displayName string)
	CallReady     = "ready"             // ()
)

// Guest is the script runtime that hosts the emulator core.
//
// Deliver is fire-and-forget: it must not block the caller and must
// preserve the order of calls made from a single goroutine. No result
// is reported back.
type Guest interface {
	Deliver(event string, args ...any)
}

// GuestFunc adapts an ordinary function to the Guest interface.
type GuestFunc func(event string, args ...any)

// Deliver calls f(event, args...).
func (f GuestFunc) Deliver(event string, args ...any) {
	f(event, args...)
}

// Notifier shows short user-facing notices on the native UI surface.
type Notifier interface {
	// Info shows an informational notice.
	Info(message string)
	// Error shows an error notice.
	Error(message string)
}
