package style

import "time"

// Layout reference values at 14pt.
const (
	baseListRowHeight    = 36
	baseListHeaderHeight = 34
	baseListColSize      = 90
	baseListColType      = 70
	maxLargeFontSize     = 42
)

// Spacing used across screens
const (
	DefaultPadding      = 16
	DefaultSpacing      = 16
	SmallSpacing        = 8
	TinySpacing         = 4
	ScrollbarWidth      = 20
	ButtonPaddingSmall  = 8
	ButtonPaddingMedium = 12
	ListMinTitleWidth   = 150
	DefaultWindowWidth  = 960
	MinLayoutWidth      = 400
)

// Font-dependent list layout (updated by ApplyFontSize)
var (
	ListRowHeight    = baseListRowHeight
	ListHeaderHeight = baseListHeaderHeight
	ListColSize      = baseListColSize
	ListColType      = baseListColType
)

// Toast overlay
const (
	ToastPadding       = 12
	ToastMargin        = 8
	ToastAlpha         = 0.8
	InfoToastDuration  = 2 * time.Second
	ErrorToastDuration = 4 * time.Second
)

// CRT scanline overlay
const (
	ScanlinePeriod = 3    // one dark row every N physical pixels
	ScanlineAlpha  = 0.35 // darkness of each scanline
)

// Mouse wheel scroll sensitivity
const ScrollWheelSensitivity = 0.05
