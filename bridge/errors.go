// Package bridge moves save states and ROM images across the host/guest
// boundary.
//
// File and encoding work runs on the background pool. Guest deliveries
// and user notices are posted back to the UI loop. No failure is ever
// reported to the guest; the user sees a notice instead.
package bridge

import "errors"

var (
	// ErrNotFound means the requested save slot has never been written.
	ErrNotFound = errors.New("save state not found")
	// ErrDecode means a payload from the guest was not valid base64.
	ErrDecode = errors.New("malformed state payload")
	// ErrIO means reading or writing storage failed.
	ErrIO = errors.New("storage failure")
	// ErrNoGame means a save or load was requested before any launch.
	ErrNoGame = errors.New("no game loaded")
)

// User-facing notices
const (
	msgSaved        = "State saved"
	msgSaveFailed   = "Failed to save state"
	msgCorrupted    = "Save state data is corrupted"
	msgNoSave       = "No save found"
	msgLoadFailed   = "Failed to read save state"
	msgNoGame       = "No game loaded"
	msgRomFailed    = "Failed to load ROM"
	msgUnknownCall  = "unknown guest call"
	msgBadArguments = "bad arguments"
)
