package standalone

import (
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/Zash60/snes-josc/standalone/style"
)

// NotificationType determines the visual style of the notification
type NotificationType int

const (
	NotificationInfo  NotificationType = iota // neutral toast
	NotificationError                         // red toast, shown longer
)

// Notification displays temporary messages on screen. It is the native
// notifier the bridges report save and load outcomes to.
type Notification struct {
	mu         sync.Mutex
	message    string
	startTime  time.Time
	duration   time.Duration
	notifyType NotificationType
	now        func() time.Time

	// reused between frames
	bg *ebiten.Image
}

// NewNotification creates a new notification system
func NewNotification() *Notification {
	return &Notification{now: time.Now}
}

// Info shows an informational toast.
func (n *Notification) Info(msg string) {
	n.Show(msg, NotificationInfo, style.InfoToastDuration)
}

// Error shows a failure toast and logs it.
func (n *Notification) Error(msg string) {
	log.Printf("Warning: %s", msg)
	n.Show(msg, NotificationError, style.ErrorToastDuration)
}

// Show displays message for duration, replacing any current toast.
func (n *Notification) Show(message string, kind NotificationType, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
	n.notifyType = kind
	n.startTime = n.now()
	n.duration = duration
}

// Current returns the visible message and its type, or "" once it expired.
func (n *Notification) Current() (string, NotificationType) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.message == "" || n.now().Sub(n.startTime) >= n.duration {
		return "", NotificationInfo
	}
	return n.message, n.notifyType
}

// Clear removes the current notification
func (n *Notification) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
}

// Draw renders the toast in the bottom-right corner
func (n *Notification) Draw(screen *ebiten.Image) {
	message, kind := n.Current()
	if message == "" {
		return
	}

	bounds := screen.Bounds()
	face := *style.FontFace()
	textWidth, textHeight := text.Measure(message, face, 0)

	padding := style.ToastPadding
	bgWidth := int(textWidth) + padding*2
	bgHeight := int(textHeight) + padding*2
	bgX := bounds.Dx() - bgWidth - style.ToastMargin
	bgY := bounds.Dy() - bgHeight - style.ToastMargin

	if n.bg == nil || n.bg.Bounds().Dx() < bgWidth || n.bg.Bounds().Dy() < bgHeight {
		n.bg = ebiten.NewImage(bgWidth, bgHeight)
	}
	fill := style.Overlay
	if kind == NotificationError {
		fill = style.Danger
	}
	n.bg.Clear()
	n.bg.Fill(style.WithAlpha(fill, style.ToastAlpha))

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(bgX), float64(bgY))
	screen.DrawImage(n.bg.SubImage(image.Rect(0, 0, bgWidth, bgHeight)).(*ebiten.Image), opts)

	textOpts := &text.DrawOptions{}
	textOpts.GeoM.Translate(float64(bgX+padding), float64(bgY+padding))
	textOpts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, message, face, textOpts)
}
