package bridge

import "log"

// LogNotifier reports notices to the process log. Used when no window is
// open to show them.
type LogNotifier struct{}

// Info logs an informational notice.
func (LogNotifier) Info(msg string) {
	log.Printf("%s", msg)
}

// Error logs a failure notice.
func (LogNotifier) Error(msg string) {
	log.Printf("Warning: %s", msg)
}
