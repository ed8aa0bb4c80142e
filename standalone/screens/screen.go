// Package screens holds the ebitenui screens shown outside gameplay.
package screens

import "github.com/ebitenui/ebitenui/widget"

// ScreenCallback provides callbacks for screen navigation
type ScreenCallback interface {
	LaunchROM(path string)
	SetCRT(on bool)
	CRTEnabled() bool
	Exit()
	GetWindowWidth() int // for responsive layout calculations
	RequestRebuild()     // rebuild the UI after state changes
}

// Screen is a buildable UI page.
type Screen interface {
	Build() *widget.Container
	OnEnter()
}
