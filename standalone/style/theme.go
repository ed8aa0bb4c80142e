package style

import (
	"bytes"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Theme colors, replaced wholesale by ApplyTheme
var (
	Background    = ThemeDefault.Background
	Surface       = ThemeDefault.Surface
	Primary       = ThemeDefault.Primary
	PrimaryHover  = ThemeDefault.PrimaryHover
	Text          = ThemeDefault.Text
	TextSecondary = ThemeDefault.TextSecondary
	Accent        = ThemeDefault.Accent
	Border        = ThemeDefault.Border
	Overlay       = ThemeDefault.Overlay
	Danger        = ThemeDefault.Danger
	PadFace       = ThemeDefault.PadFace
	PadPressed    = ThemeDefault.PadPressed
)

// Theme holds all color values for a UI theme
type Theme struct {
	Name          string
	Background    color.NRGBA
	Surface       color.NRGBA
	Primary       color.NRGBA
	PrimaryHover  color.NRGBA
	Text          color.NRGBA
	TextSecondary color.NRGBA
	Accent        color.NRGBA
	Border        color.NRGBA
	Overlay       color.NRGBA // toast and scanline base, alpha applied per use
	Danger        color.NRGBA // error toasts
	PadFace       color.NRGBA // on-screen gamepad controls at rest
	PadPressed    color.NRGBA // on-screen gamepad controls while held
}

// Predefined themes
var (
	ThemeDefault = Theme{
		Name:          "Default",
		Background:    color.NRGBA{0x1a, 0x1a, 0x2e, 0xff},
		Surface:       color.NRGBA{0x25, 0x25, 0x3a, 0xff},
		Primary:       color.NRGBA{0x4a, 0x4a, 0x8a, 0xff},
		PrimaryHover:  color.NRGBA{0x5a, 0x5a, 0x9a, 0xff},
		Text:          color.NRGBA{0xff, 0xff, 0xff, 0xff},
		TextSecondary: color.NRGBA{0xaa, 0xaa, 0xaa, 0xff},
		Accent:        color.NRGBA{0xff, 0xd7, 0x00, 0xff},
		Border:        color.NRGBA{0x3a, 0x3a, 0x5a, 0xff},
		Overlay:       color.NRGBA{0x00, 0x00, 0x00, 0xff},
		Danger:        color.NRGBA{0xc6, 0x28, 0x28, 0xff},
		PadFace:       color.NRGBA{0x44, 0x44, 0x55, 0xff},
		PadPressed:    color.NRGBA{0x9a, 0x9a, 0xd0, 0xff},
	}

	ThemeDark = Theme{
		Name:          "Dark",
		Background:    color.NRGBA{0x0a, 0x0a, 0x0a, 0xff},
		Surface:       color.NRGBA{0x1a, 0x1a, 0x1a, 0xff},
		Primary:       color.NRGBA{0x1e, 0x40, 0x7a, 0xff},
		PrimaryHover:  color.NRGBA{0x2a, 0x50, 0x8a, 0xff},
		Text:          color.NRGBA{0xff, 0xff, 0xff, 0xff},
		TextSecondary: color.NRGBA{0x88, 0x88, 0x88, 0xff},
		Accent:        color.NRGBA{0x00, 0xc8, 0x53, 0xff},
		Border:        color.NRGBA{0x2a, 0x2a, 0x2a, 0xff},
		Overlay:       color.NRGBA{0x00, 0x00, 0x00, 0xff},
		Danger:        color.NRGBA{0xb7, 0x1c, 0x1c, 0xff},
		PadFace:       color.NRGBA{0x30, 0x30, 0x30, 0xff},
		PadPressed:    color.NRGBA{0x2a, 0x60, 0xb0, 0xff},
	}

	ThemeLight = Theme{
		Name:          "Light",
		Background:    color.NRGBA{0xe8, 0xe8, 0xe8, 0xff},
		Surface:       color.NRGBA{0xf5, 0xf5, 0xf5, 0xff},
		Primary:       color.NRGBA{0x1a, 0x56, 0xdb, 0xff},
		PrimaryHover:  color.NRGBA{0x2a, 0x66, 0xeb, 0xff},
		Text:          color.NRGBA{0x1a, 0x1a, 0x1a, 0xff},
		TextSecondary: color.NRGBA{0x66, 0x66, 0x66, 0xff},
		Accent:        color.NRGBA{0xe6, 0x5c, 0x00, 0xff},
		Border:        color.NRGBA{0xcc, 0xcc, 0xcc, 0xff},
		Overlay:       color.NRGBA{0x20, 0x20, 0x20, 0xff},
		Danger:        color.NRGBA{0xd3, 0x2f, 0x2f, 0xff},
		PadFace:       color.NRGBA{0xb0, 0xb0, 0xb8, 0xff},
		PadPressed:    color.NRGBA{0x1a, 0x56, 0xdb, 0xff},
	}

	ThemeRetro = Theme{
		Name:          "Retro",
		Background:    color.NRGBA{0x1c, 0x1c, 0x1c, 0xff},
		Surface:       color.NRGBA{0x28, 0x28, 0x28, 0xff},
		Primary:       color.NRGBA{0x8b, 0x00, 0x00, 0xff},
		PrimaryHover:  color.NRGBA{0xab, 0x20, 0x20, 0xff},
		Text:          color.NRGBA{0xd0, 0xd0, 0xd0, 0xff},
		TextSecondary: color.NRGBA{0x80, 0x80, 0x80, 0xff},
		Accent:        color.NRGBA{0x00, 0xaa, 0x00, 0xff},
		Border:        color.NRGBA{0x3c, 0x3c, 0x3c, 0xff},
		Overlay:       color.NRGBA{0x00, 0x00, 0x00, 0xff},
		Danger:        color.NRGBA{0xcc, 0x33, 0x00, 0xff},
		PadFace:       color.NRGBA{0x3c, 0x3c, 0x3c, 0xff},
		PadPressed:    color.NRGBA{0xab, 0x20, 0x20, 0xff},
	}

	// ThemeSuperFamicom uses the four face button colors of the Super Famicom pad
	// for accents.
	ThemeSuperFamicom = Theme{
		Name:          "Super Famicom",
		Background:    color.NRGBA{0xc8, 0xc8, 0xcc, 0xff},
		Surface:       color.NRGBA{0xdc, 0xdc, 0xe0, 0xff},
		Primary:       color.NRGBA{0x5b, 0x4b, 0x8a, 0xff},
		PrimaryHover:  color.NRGBA{0x73, 0x63, 0xa4, 0xff},
		Text:          color.NRGBA{0x22, 0x22, 0x2a, 0xff},
		TextSecondary: color.NRGBA{0x5a, 0x5a, 0x66, 0xff},
		Accent:        color.NRGBA{0xd0, 0x21, 0x2b, 0xff},
		Border:        color.NRGBA{0x9a, 0x9a, 0xa4, 0xff},
		Overlay:       color.NRGBA{0x22, 0x22, 0x2a, 0xff},
		Danger:        color.NRGBA{0xd0, 0x21, 0x2b, 0xff},
		PadFace:       color.NRGBA{0x6e, 0x6e, 0x78, 0xff},
		PadPressed:    color.NRGBA{0x1e, 0x8f, 0x4e, 0xff},
	}

	// AvailableThemes lists all themes for UI selection
	AvailableThemes = []Theme{ThemeDefault, ThemeDark, ThemeLight, ThemeRetro, ThemeSuperFamicom}

	// CurrentThemeName tracks the active theme name
	CurrentThemeName = "Default"
)

// ThemeNames returns the list of valid theme name strings.
func ThemeNames() []string {
	names := make([]string, len(AvailableThemes))
	for i, t := range AvailableThemes {
		names[i] = t.Name
	}
	return names
}

// GetThemeByName returns theme by name, or ThemeDefault if not found
func GetThemeByName(name string) Theme {
	for _, t := range AvailableThemes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// IsValidThemeName returns true if the name matches a known theme
func IsValidThemeName(name string) bool {
	for _, t := range AvailableThemes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ApplyTheme updates package-level color variables from a theme
func ApplyTheme(theme Theme) {
	Background = theme.Background
	Surface = theme.Surface
	Primary = theme.Primary
	PrimaryHover = theme.PrimaryHover
	Text = theme.Text
	TextSecondary = theme.TextSecondary
	Accent = theme.Accent
	Border = theme.Border
	Overlay = theme.Overlay
	Danger = theme.Danger
	PadFace = theme.PadFace
	PadPressed = theme.PadPressed
	CurrentThemeName = theme.Name
}

// ApplyThemeByName applies theme by name with fallback to Default
func ApplyThemeByName(name string) {
	ApplyTheme(GetThemeByName(name))
}

// WithAlpha returns c with its alpha channel replaced by a (0..1).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	switch {
	case a <= 0:
		c.A = 0
	case a >= 1:
		c.A = 0xff
	default:
		c.A = uint8(a * 0xff)
	}
	return c
}

var (
	currentFontSize float64 = 14
	fontSource      *text.GoTextFaceSource
	fontFace        text.Face
	largeFontFace   text.Face
)

func loadFontSource() *text.GoTextFaceSource {
	if fontSource == nil {
		source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("Failed to load font source: %v", err)
			return nil
		}
		fontSource = source
	}
	return fontSource
}

// FontFace returns the font face to use for UI text. Widgets keep the
// returned pointer, so ApplyFontSize swaps the face in place.
func FontFace() *text.Face {
	if fontFace == nil {
		if source := loadFontSource(); source != nil {
			fontFace = &text.GoTextFace{Source: source, Size: currentFontSize}
		}
	}
	return &fontFace
}

// LargeFontFace returns the face used for pad labels and the status title.
func LargeFontFace() *text.Face {
	if largeFontFace == nil {
		if source := loadFontSource(); source != nil {
			largeFontFace = &text.GoTextFace{Source: source, Size: largeSize(currentFontSize)}
		}
	}
	return &largeFontFace
}

func largeSize(s float64) float64 {
	if l := s * 1.5; l < maxLargeFontSize {
		return l
	}
	return maxLargeFontSize
}

// FontScale returns the current font scale factor relative to 14pt.
func FontScale() float64 {
	return currentFontSize / 14.0
}

// ApplyFontSize sets the font size and recalculates font-dependent layout values.
func ApplyFontSize(size int) {
	s := float64(size)
	currentFontSize = s

	if source := loadFontSource(); source != nil {
		fontFace = &text.GoTextFace{Source: source, Size: s}
		largeFontFace = &text.GoTextFace{Source: source, Size: largeSize(s)}
	}

	scale := s / 14.0
	ListRowHeight = int(baseListRowHeight * scale)
	ListHeaderHeight = int(baseListHeaderHeight * scale)
	ListColSize = int(baseListColSize * scale)
	ListColType = int(baseListColType * scale)
}

// ButtonImage creates a standard button image set
func ButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(Surface),
		Hover:    image.NewNineSliceColor(PrimaryHover),
		Pressed:  image.NewNineSliceColor(Primary),
		Disabled: image.NewNineSliceColor(Border),
	}
}

// PrimaryButtonImage creates a prominent button image set
func PrimaryButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(Primary),
		Hover:    image.NewNineSliceColor(PrimaryHover),
		Pressed:  image.NewNineSliceColor(Surface),
		Disabled: image.NewNineSliceColor(Border),
	}
}

// ActiveButtonImage returns a button image based on toggle state.
func ActiveButtonImage(active bool) *widget.ButtonImage {
	if active {
		return PrimaryButtonImage()
	}
	return ButtonImage()
}

// SliderButtonImage creates a slider handle button image
func SliderButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(Primary),
		Hover:    image.NewNineSliceColor(PrimaryHover),
		Pressed:  image.NewNineSliceColor(Primary),
		Disabled: image.NewNineSliceColor(Border),
	}
}

// ButtonTextColor returns the standard button text colors
func ButtonTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     Text,
		Disabled: TextSecondary,
	}
}
