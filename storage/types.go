package storage

import "github.com/Zash60/snes-josc/api"

// Config represents the application configuration stored in config.json
type Config struct {
	Version  int           `json:"version"`
	Theme    string        `json:"theme"`    // Theme name: "Default", "Dark", "Light", "Retro"
	FontSize int           `json:"fontSize"` // 10-32, default 14
	Server   ServerConfig  `json:"server"`
	Video    VideoConfig   `json:"video"`
	Window   WindowConfig  `json:"window"`
	Library  LibraryConfig `json:"library"`
	Input    InputConfig   `json:"input"`
}

// ServerConfig controls how guest assets and the bridge are served
type ServerConfig struct {
	Addr      string `json:"addr"`                // listen address, loopback by default
	Origin    string `json:"origin"`              // virtual host the guest page is loaded from
	AssetsDir string `json:"assetsDir,omitempty"` // empty = <data dir>/assets
}

// VideoConfig contains video-related settings
type VideoConfig struct {
	CRTMode    bool `json:"crtMode"`
	Fullscreen bool `json:"fullscreen"` // re-asserted after every game launch
}

// WindowConfig contains window size
type WindowConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LibraryConfig contains ROM browser settings
type LibraryConfig struct {
	Folder     string   `json:"folder"`
	Extensions []string `json:"extensions"`
	Recursive  bool     `json:"recursive"`
}

// InputConfig contains on-screen gamepad settings
type InputConfig struct {
	ButtonOpacity float64 `json:"buttonOpacity"` // 0.1-1.0
	HapticPress   bool    `json:"hapticPress"`   // flash a control while it is held
}

// FontSizePresets lists the available font size options
var FontSizePresets = []int{10, 12, 14, 16, 18, 20, 24, 28, 32}

// ValidFontSize returns the nearest valid preset font size.
func ValidFontSize(size int) int {
	best := FontSizePresets[0]
	for _, p := range FontSizePresets {
		if abs(p-size) < abs(best-size) {
			best = p
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Window size limits
const (
	MinWindowWidth  = 480
	MinWindowHeight = 270
)

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Theme:    "Default",
		FontSize: 14,
		Server: ServerConfig{
			Addr:   "127.0.0.1:8765",
			Origin: "appassets.localhost",
		},
		Video: VideoConfig{
			CRTMode:    false,
			Fullscreen: false,
		},
		Window: WindowConfig{
			Width:  960,
			Height: 540,
		},
		Library: LibraryConfig{
			Extensions: api.SNES().BrowsableExtensions(),
		},
		Input: InputConfig{
			ButtonOpacity: 0.6,
			HapticPress:   true,
		},
	}
}
