package screens

import (
	"fmt"

	"github.com/ebitenui/ebitenui/widget"

	"github.com/Zash60/snes-josc/standalone/style"
)

// ErrorMode distinguishes between types of config errors
type ErrorMode int

const (
	// ErrorModeCorrupted indicates the JSON file could not be parsed
	ErrorModeCorrupted ErrorMode = iota
	// ErrorModeInvalid indicates the JSON parsed but contains invalid values
	ErrorModeInvalid
)

// maxDetails caps listed validation errors so the buttons stay on screen.
const maxDetails = 5

// ErrorScreen displays a startup config error and offers a way forward.
type ErrorScreen struct {
	callback  ScreenCallback
	mode      ErrorMode
	filename  string
	path      string
	details   []string
	onRecover func()
}

// NewErrorScreen creates an error screen for a corrupted file.
// onDelete removes the file and continues with defaults.
func NewErrorScreen(callback ScreenCallback, filename, path string, onDelete func()) *ErrorScreen {
	return &ErrorScreen{
		callback:  callback,
		mode:      ErrorModeCorrupted,
		filename:  filename,
		path:      path,
		onRecover: onDelete,
	}
}

// SetValidationError switches to listing invalid settings. onReset
// replaces them with defaults and continues.
func (s *ErrorScreen) SetValidationError(filename, path string, details []string, onReset func()) {
	s.mode = ErrorModeInvalid
	s.filename = filename
	s.path = path
	s.details = details
	s.onRecover = onReset
}

// Mode returns the current error mode.
func (s *ErrorScreen) Mode() ErrorMode {
	return s.mode
}

// Lines returns the text shown above the buttons, in order.
func (s *ErrorScreen) Lines() []string {
	if s.mode == ErrorModeCorrupted {
		return []string{
			"Configuration Error",
			fmt.Sprintf("The file %q is invalid or corrupted.", s.filename),
			s.path,
		}
	}

	lines := []string{
		"Invalid Settings",
		fmt.Sprintf("The file %q contains invalid settings:", s.filename),
	}
	for i, d := range s.details {
		if i == maxDetails {
			lines = append(lines, fmt.Sprintf("+%d more", len(s.details)-maxDetails))
			break
		}
		lines = append(lines, d)
	}
	return lines
}

func (s *ErrorScreen) recoverLabel() string {
	if s.mode == ErrorModeInvalid {
		return "Reset and Continue"
	}
	return "Delete and Continue"
}

// Build creates the error screen UI
func (s *ErrorScreen) Build() *widget.Container {
	root := style.ScreenContainer()
	center := style.CenteredContainer(style.DefaultSpacing)

	for i, line := range s.Lines() {
		c := style.TextSecondary
		if i < 2 {
			c = style.Text
		}
		center.AddChild(style.Label(line, c))
	}

	buttons := style.ButtonRow()
	buttons.AddChild(style.PrimaryTextButton(s.recoverLabel(), style.ButtonPaddingMedium, func(*widget.ButtonClickedEventArgs) {
		if s.onRecover != nil {
			s.onRecover()
		}
	}))
	buttons.AddChild(style.TextButton("Exit", style.ButtonPaddingMedium, func(*widget.ButtonClickedEventArgs) {
		s.callback.Exit()
	}))
	center.AddChild(buttons)

	root.AddChild(center)
	return root
}

// OnEnter is called when entering the error screen
func (s *ErrorScreen) OnEnter() {}
