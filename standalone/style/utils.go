package style

import (
	"fmt"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TruncateStart keeps the end of s, which for paths is the file name.
// Reports whether truncation occurred.
func TruncateStart(s string, maxLen int) (string, bool) {
	if len(s) <= maxLen {
		return s, false
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:], true
	}
	return "..." + s[len(s)-maxLen+3:], true
}

// MeasureWidth returns the pixel width of s at the current font size.
func MeasureWidth(s string) float64 {
	w, _ := text.Measure(s, *FontFace(), 0)
	return w
}

// TruncateToWidth shortens s with a trailing "..." until it fits maxWidth
// pixels in face. Binary search over rune prefixes.
func TruncateToWidth(s string, face text.Face, maxWidth float64) (string, bool) {
	if s == "" {
		return s, false
	}
	if w, _ := text.Measure(s, face, 0); w <= maxWidth {
		return s, false
	}

	const ellipsis = "..."
	if w, _ := text.Measure(ellipsis, face, 0); w > maxWidth {
		return ellipsis, true
	}

	lo, hi, best := 0, utf8.RuneCountInString(s), 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if w, _ := text.Measure(runePrefix(s, mid)+ellipsis, face, 0); w <= maxWidth {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return runePrefix(s, best) + ellipsis, true
}

func runePrefix(s string, n int) string {
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}

// FormatSize renders a byte count the way the ROM list shows it.
func FormatSize(n int64) string {
	const unit = 1024
	switch {
	case n < 0:
		return "-"
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}
