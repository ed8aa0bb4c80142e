package storage

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
)

// detectPresentKeys returns the dotted-path keys (e.g. "window.width")
// explicitly present in the JSON. Only fields with validation rules are
// checked.
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for _, k := range []string{"version", "theme", "fontSize"} {
		if _, ok := raw[k]; ok {
			present[k] = true
		}
	}

	nested := map[string][]string{
		"server":  {"addr", "origin"},
		"window":  {"width", "height"},
		"library": {"extensions"},
		"input":   {"buttonOpacity", "hapticPress"},
	}
	for section, keys := range nested {
		sectionRaw, ok := raw[section]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(sectionRaw, &fields) != nil {
			continue
		}
		for _, k := range keys {
			if _, ok := fields[k]; ok {
				present[section+"."+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets default values for config fields that are absent
// from the JSON file, preserving intentional zero values.
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["theme"] {
		config.Theme = defaults.Theme
	}
	if !presentKeys["fontSize"] {
		config.FontSize = defaults.FontSize
	}
	if !presentKeys["server.addr"] {
		config.Server.Addr = defaults.Server.Addr
	}
	if !presentKeys["server.origin"] {
		config.Server.Origin = defaults.Server.Origin
	}
	if !presentKeys["window.width"] {
		config.Window.Width = defaults.Window.Width
	}
	if !presentKeys["window.height"] {
		config.Window.Height = defaults.Window.Height
	}
	if !presentKeys["library.extensions"] {
		config.Library.Extensions = defaults.Library.Extensions
	}
	if !presentKeys["input.buttonOpacity"] {
		config.Input.ButtonOpacity = defaults.Input.ButtonOpacity
	}
	if !presentKeys["input.hapticPress"] {
		config.Input.HapticPress = defaults.Input.HapticPress
	}
}

func validAddr(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	return err == nil && port != ""
}

func validOrigin(origin string) bool {
	return origin != "" && !strings.ContainsAny(origin, "/: ")
}

func validExtensions(exts []string) bool {
	if len(exts) == 0 {
		return false
	}
	for _, e := range exts {
		if len(e) < 2 || e[0] != '.' {
			return false
		}
	}
	return true
}

// ValidateConfig checks all config fields against their valid ranges.
// Returns a list of human-readable error strings (empty if valid).
// validThemes should be the list of known theme names.
func ValidateConfig(config *Config, validThemes []string) []string {
	var errors []string

	if config.Version != 1 {
		errors = append(errors, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}

	themeValid := false
	for _, t := range validThemes {
		if config.Theme == t {
			themeValid = true
			break
		}
	}
	if !themeValid {
		errors = append(errors, fmt.Sprintf("theme: %q (valid: %v)", config.Theme, validThemes))
	}

	fontSizeValid := false
	for _, p := range FontSizePresets {
		if config.FontSize == p {
			fontSizeValid = true
			break
		}
	}
	if !fontSizeValid {
		errors = append(errors, fmt.Sprintf("fontSize: %d (valid: %v)", config.FontSize, FontSizePresets))
	}

	if !validAddr(config.Server.Addr) {
		errors = append(errors, fmt.Sprintf("server.addr: %q (valid: host:port)", config.Server.Addr))
	}

	if !validOrigin(config.Server.Origin) {
		errors = append(errors, fmt.Sprintf("server.origin: %q (valid: bare host name)", config.Server.Origin))
	}

	if config.Window.Width < MinWindowWidth {
		errors = append(errors, fmt.Sprintf("window.width: %d (valid: >= %d)", config.Window.Width, MinWindowWidth))
	}

	if config.Window.Height < MinWindowHeight {
		errors = append(errors, fmt.Sprintf("window.height: %d (valid: >= %d)", config.Window.Height, MinWindowHeight))
	}

	if !validExtensions(config.Library.Extensions) {
		errors = append(errors, fmt.Sprintf("library.extensions: %v (valid: non-empty, each starting with \".\")", config.Library.Extensions))
	}

	if config.Input.ButtonOpacity < 0.1 || config.Input.ButtonOpacity > 1.0 {
		errors = append(errors, fmt.Sprintf("input.buttonOpacity: %.2f (valid: 0.1-1.0)", config.Input.ButtonOpacity))
	}

	return errors
}

// CorrectConfig resets any invalid fields to their defaults from DefaultConfig().
// Valid fields are preserved. validThemes should be the list of known theme names.
func CorrectConfig(config *Config, validThemes []string) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}

	themeValid := false
	for _, t := range validThemes {
		if config.Theme == t {
			themeValid = true
			break
		}
	}
	if !themeValid {
		config.Theme = defaults.Theme
	}

	config.FontSize = ValidFontSize(config.FontSize)

	if !validAddr(config.Server.Addr) {
		config.Server.Addr = defaults.Server.Addr
	}
	if !validOrigin(config.Server.Origin) {
		config.Server.Origin = defaults.Server.Origin
	}
	if config.Window.Width < MinWindowWidth {
		config.Window.Width = defaults.Window.Width
	}
	if config.Window.Height < MinWindowHeight {
		config.Window.Height = defaults.Window.Height
	}
	if !validExtensions(config.Library.Extensions) {
		config.Library.Extensions = defaults.Library.Extensions
	}
	if config.Input.ButtonOpacity < 0.1 || config.Input.ButtonOpacity > 1.0 {
		config.Input.ButtonOpacity = defaults.Input.ButtonOpacity
	}

	return config
}
