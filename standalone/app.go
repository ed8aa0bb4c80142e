// Package standalone is the windowed host: a ROM browser and an on-screen
// SNES gamepad that drive the guest page over the bridge.
package standalone

import (
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/Zash60/snes-josc/api"
	"github.com/Zash60/snes-josc/bridge"
	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/romloader"
	"github.com/Zash60/snes-josc/standalone/screens"
	"github.com/Zash60/snes-josc/standalone/style"
	"github.com/Zash60/snes-josc/storage"
	"github.com/Zash60/snes-josc/touchpad"
)

// Link reports whether a guest page is attached.
type Link interface {
	Connected() bool
}

// Options wires the window to the rest of the host.
type Options struct {
	Config    *storage.Config
	ConfigErr error // LoadConfig failure, offered for recovery on the error screen
	UI        *dispatch.Loop
	Guest     api.Guest
	Link      Link
	Saves     *bridge.SaveStateBridge
	Roms      *bridge.RomTransferBridge
	Notify    *Notification
	ROM       string // launched right away when set
	GuestURL  string // where the guest page is served, shown while waiting
}

// App implements ebiten.Game
type App struct {
	opts   Options
	config *storage.Config
	// config.json is only written back once it is known to be good
	configOK bool

	ui    *ebitenui.UI
	state AppState

	libraryScreen *screens.LibraryScreen
	errorScreen   *screens.ErrorScreen
	notification  *Notification

	buttons  *touchpad.State
	gamepad  *Gamepad
	keyboard *KeyboardInput
	pointers pointerTracker
	crt      Scanlines

	game         string
	windowWidth  int
	windowHeight int
	focused      bool
	needsRebuild bool
	exit         bool
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	ebiten.SetWindowTitle(api.SNES().ConsoleName + " - " + api.SNES().Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(storage.MinWindowWidth, storage.MinWindowHeight, -1, -1)

	app := newApp(opts)
	ebiten.SetWindowSize(app.config.Window.Width, app.config.Window.Height)
	ebiten.SetFullscreen(app.config.Video.Fullscreen)

	err := ebiten.RunGame(app)
	app.SaveAndClose()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func newApp(opts Options) *App {
	if opts.Notify == nil {
		opts.Notify = NewNotification()
	}
	a := &App{
		opts:         opts,
		config:       opts.Config,
		configOK:     true,
		notification: opts.Notify,
		focused:      true,
	}

	a.buttons = touchpad.NewState(touchpad.GuestSink(opts.Guest))
	// touch and keys share one held state per button and per axis
	inputs := touchpad.NewMerge(a.buttons)
	a.gamepad = NewGamepad(inputs.Source(), GamepadActions{
		Save: a.requestSave,
		Load: a.requestLoad,
		Menu: a.leaveGame,
	}, 0, false)
	a.keyboard = NewKeyboardInput(inputs.Source(), DefaultMapping())

	configPath, _ := storage.GetConfigPath()
	a.errorScreen = screens.NewErrorScreen(a, "config.json", configPath, a.onDeleteConfig)

	state := StateLibrary
	if opts.ConfigErr != nil || a.config == nil {
		a.config = storage.DefaultConfig()
		a.configOK = false
		state = StateError
	} else if details := storage.ValidateConfig(a.config, style.ThemeNames()); len(details) > 0 {
		a.errorScreen.SetValidationError("config.json", configPath, details, a.onResetConfig)
		a.configOK = false
		state = StateError
	}

	a.applyAppearance()
	a.crt.SetEnabled(a.config.Video.CRTMode)
	a.libraryScreen = screens.NewLibraryScreen(a, a.config, opts.UI)
	opts.Roms.OnLaunch(a.onLaunch)

	a.enterState(state)
	if opts.ROM != "" && state != StateError {
		a.LaunchROM(opts.ROM)
	}
	return a
}

func (a *App) applyAppearance() {
	style.ApplyThemeByName(a.config.Theme)
	style.ApplyFontSize(storage.ValidFontSize(a.config.FontSize))
	a.gamepad.SetAppearance(a.config.Input.ButtonOpacity, a.config.Input.HapticPress)
}

func (a *App) enterState(s AppState) {
	if a.state == StatePlaying && s != StatePlaying {
		a.releaseInput()
	}
	a.state = s
	switch s {
	case StateLibrary:
		a.libraryScreen.OnEnter()
	case StateError:
		a.errorScreen.OnEnter()
	}
	if s != StatePlaying {
		a.rebuild()
	}
}

func (a *App) rebuild() {
	var container *widget.Container
	switch a.state {
	case StateError:
		container = a.errorScreen.Build()
	default:
		container = a.libraryScreen.Build()
	}
	a.ui = &ebitenui.UI{Container: container}
	a.needsRebuild = false
}

// recoverConfig adopts cfg after the user resolved a config error.
func (a *App) recoverConfig(cfg *storage.Config) {
	a.config = cfg
	a.configOK = true
	if err := storage.SaveConfig(cfg); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
	a.applyAppearance()
	a.crt.SetEnabled(cfg.Video.CRTMode)
	a.libraryScreen.SetConfig(cfg)
	a.enterState(StateLibrary)
}

func (a *App) onDeleteConfig() {
	if err := storage.DeleteConfig(); err != nil {
		log.Printf("Warning: failed to delete config: %v", err)
	}
	a.recoverConfig(storage.DefaultConfig())
}

func (a *App) onResetConfig() {
	a.recoverConfig(storage.CorrectConfig(a.config, style.ThemeNames()))
}

// LaunchROM reads path in the background and hands it to the guest.
func (a *App) LaunchROM(path string) {
	a.notification.Info("Loading " + filepath.Base(path))
	a.opts.Roms.Transfer(romloader.File(path))
}

// onLaunch runs on the UI loop once the guest has been sent the ROM.
func (a *App) onLaunch(displayName string) {
	a.game = displayName
	a.notification.Clear()
	a.enterState(StatePlaying)
	if a.config.Video.Fullscreen {
		ebiten.SetFullscreen(true)
	}
}

func (a *App) requestSave() {
	// ErrNoGame is already shown as a notice
	_ = a.opts.Saves.RequestSave()
}

func (a *App) requestLoad() {
	_ = a.opts.Saves.RequestLoad()
}

func (a *App) leaveGame() {
	a.opts.Roms.Cancel()
	a.enterState(StateLibrary)
}

func (a *App) releaseInput() {
	a.gamepad.ReleaseAll()
	a.pointers.reset()
	a.keyboard.Release()
}

// SetCRT toggles the scanline overlay and remembers the choice.
func (a *App) SetCRT(on bool) {
	a.config.Video.CRTMode = on
	a.crt.SetEnabled(on)
	a.saveConfig()
}

// CRTEnabled reports whether the scanline overlay is on.
func (a *App) CRTEnabled() bool {
	return a.crt.Enabled()
}

// Exit closes the window at the end of the frame.
func (a *App) Exit() {
	a.exit = true
}

// GetWindowWidth returns the current layout width.
func (a *App) GetWindowWidth() int {
	return a.windowWidth
}

// RequestRebuild rebuilds the screen on the next frame.
func (a *App) RequestRebuild() {
	a.needsRebuild = true
}

func (a *App) saveConfig() {
	if !a.configOK {
		return
	}
	if err := storage.SaveConfig(a.config); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
}

// SaveAndClose persists window state on exit.
func (a *App) SaveAndClose() {
	a.releaseInput()
	a.saveConfig()
}

func (a *App) toggleFullscreen() {
	a.config.Video.Fullscreen = !ebiten.IsFullscreen()
	ebiten.SetFullscreen(a.config.Video.Fullscreen)
}

// Update implements ebiten.Game
func (a *App) Update() error {
	if a.exit {
		return ebiten.Termination
	}

	// bridge continuations, scan results and guest calls
	a.opts.UI.Drain()

	if !ebiten.IsFullscreen() {
		a.config.Window.Width, a.config.Window.Height = ebiten.WindowSize()
	}

	focused := ebiten.IsFocused()
	if !focused && a.focused {
		a.releaseInput()
	}
	a.focused = focused

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	switch a.state {
	case StatePlaying:
		a.updateGameplay()
	default:
		if a.needsRebuild {
			a.rebuild()
		}
		a.ui.Update()
	}
	return nil
}

func (a *App) updateGameplay() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.leaveGame()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		a.requestSave()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		a.requestLoad()
	}
	if !a.focused {
		return
	}
	a.gamepad.Layout(a.windowWidth, a.windowHeight)
	a.pointers.Update(a.gamepad.Surface())
	a.keyboard.Update()
}

// Draw implements ebiten.Game
func (a *App) Draw(screen *ebiten.Image) {
	switch a.state {
	case StatePlaying:
		screen.Fill(style.Background)
		a.drawStatus(screen)
		a.crt.Draw(screen)
		a.gamepad.Draw(screen)
	default:
		a.ui.Draw(screen)
	}
	a.notification.Draw(screen)
}

// statusLines is the text in the middle of the pad.
func statusLines(game string, connected bool, guestURL string, held map[api.ButtonID]bool) []string {
	lines := []string{game}
	if connected {
		lines = append(lines, "Guest connected")
	} else {
		lines = append(lines, "Waiting for guest", guestURL)
	}
	var pressed []string
	for _, id := range api.Buttons {
		if held[id] {
			pressed = append(pressed, string(id))
		}
	}
	if len(pressed) > 0 {
		lines = append(lines, strings.Join(pressed, " "))
	}
	return lines
}

func (a *App) drawStatus(screen *ebiten.Image) {
	r := a.gamepad.StatusRect()
	connected := a.opts.Link != nil && a.opts.Link.Connected()
	lines := statusLines(a.game, connected, a.opts.GuestURL, a.buttons.Snapshot())

	y := r.Y
	for i, line := range lines {
		face := *style.FontFace()
		c := style.TextSecondary
		if i == 0 {
			face = *style.LargeFontFace()
			c = style.Text
		}
		if face == nil {
			return
		}
		line, _ = style.TruncateToWidth(line, face, r.W)
		opts := &text.DrawOptions{}
		opts.GeoM.Translate(r.X+r.W/2, y)
		opts.PrimaryAlign = text.AlignCenter
		opts.ColorScale.ScaleWithColor(c)
		text.Draw(screen, line, face, opts)
		_, h := text.Measure(line, face, 0)
		y += h + style.TinySpacing
	}
}

// Layout implements ebiten.Game
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.windowWidth && a.state != StatePlaying {
		a.needsRebuild = true
	}
	a.windowWidth, a.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
