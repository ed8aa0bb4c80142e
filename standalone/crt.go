package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Zash60/snes-josc/standalone/style"
)

// Scanlines draws a CRT-style overlay of darkened rows. The pattern image
// is rebuilt only when the target size changes.
type Scanlines struct {
	enabled bool
	overlay *ebiten.Image
	pattern []byte
}

// SetEnabled turns the overlay on or off.
func (s *Scanlines) SetEnabled(on bool) {
	s.enabled = on
}

// Enabled reports whether the overlay is drawn.
func (s *Scanlines) Enabled() bool {
	return s.enabled
}

// scanlinePixels returns RGBA pixels for a w x h overlay with every
// period-th row darkened to alpha.
func scanlinePixels(w, h, period int, alpha uint8, buf []byte) []byte {
	n := w * h * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	clear(buf)
	if period < 1 {
		return buf
	}
	// premultiplied black only needs the alpha channel
	for y := 0; y < h; y += period {
		row := buf[y*w*4 : (y+1)*w*4]
		for x := 3; x < len(row); x += 4 {
			row[x] = alpha
		}
	}
	return buf
}

// Draw darkens every few rows of screen.
func (s *Scanlines) Draw(screen *ebiten.Image) {
	if !s.enabled {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if s.overlay == nil || s.overlay.Bounds().Dx() != w || s.overlay.Bounds().Dy() != h {
		alpha := float64(style.ScanlineAlpha)
		s.pattern = scanlinePixels(w, h, style.ScanlinePeriod, uint8(alpha*0xff), s.pattern)
		s.overlay = ebiten.NewImage(w, h)
		s.overlay.WritePixels(s.pattern)
	}
	screen.DrawImage(s.overlay, nil)
}
