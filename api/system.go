package api

import "strings"

// StateSuffix is appended to a game's display name to form its save slot key.
const StateSuffix = ".state"

// SystemInfo describes the hosted system for UI configuration.
type SystemInfo struct {
	Name        string
	ConsoleName string
	// Extensions are the ROM file extensions shown in the browser and
	// looked for inside archives.
	Extensions []string
	// ArchiveExtensions are container formats the ROM loader can unpack.
	ArchiveExtensions []string
	Buttons           []ButtonID
	DataDirName       string
	// EntryPage is the guest page path below the virtual origin.
	EntryPage string
}

// SNES returns the system description for the web-hosted SNES core.
func SNES() SystemInfo {
	return SystemInfo{
		Name:              "snes-josc",
		ConsoleName:       "Super Nintendo",
		Extensions:        []string{".smc", ".sfc"},
		ArchiveExtensions: []string{".zip", ".7z", ".rar", ".gz"},
		Buttons:           Buttons,
		DataDirName:       "snes-josc",
		EntryPage:         "/assets/index.html",
	}
}

// BrowsableExtensions returns ROM and archive extensions together, the set
// of files offered by the ROM browser.
func (s SystemInfo) BrowsableExtensions() []string {
	exts := make([]string, 0, len(s.Extensions)+len(s.ArchiveExtensions))
	exts = append(exts, s.Extensions...)
	exts = append(exts, s.ArchiveExtensions...)
	return exts
}

// SlotKey returns the save slot key for a game display name.
func SlotKey(displayName string) string {
	return displayName + StateSuffix
}

// DisplayNameFromSlot strips StateSuffix from a slot key.
// Returns "" if key is not a slot key.
func DisplayNameFromSlot(key string) string {
	if !strings.HasSuffix(key, StateSuffix) {
		return ""
	}
	return strings.TrimSuffix(key, StateSuffix)
}
