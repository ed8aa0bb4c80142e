package screens

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/spf13/afero"
	"github.com/sqweek/dialog"

	"github.com/Zash60/snes-josc/dispatch"
	"github.com/Zash60/snes-josc/library"
	"github.com/Zash60/snes-josc/standalone/style"
	"github.com/Zash60/snes-josc/storage"
)

// LibraryScreen is the ROM browser: pick a folder, pick a ROM, play.
type LibraryScreen struct {
	callback ScreenCallback
	config   *storage.Config
	ui       *dispatch.Loop
	fs       afero.Fs

	mu       sync.Mutex
	entries  []library.Entry
	scanned  bool
	scanning bool
	scanErr  error
	scanGen  uint64
	cancel   context.CancelFunc

	listScroll    *widget.ScrollContainer
	listScrollTop float64
}

// NewLibraryScreen creates the ROM browser. Scan results are applied on ui.
func NewLibraryScreen(callback ScreenCallback, config *storage.Config, ui *dispatch.Loop) *LibraryScreen {
	return &LibraryScreen{
		callback: callback,
		config:   config,
		ui:       ui,
		fs:       afero.NewOsFs(),
	}
}

// SetConfig replaces the config and forces a rescan on next entry.
func (s *LibraryScreen) SetConfig(config *storage.Config) {
	s.config = config
	s.mu.Lock()
	s.scanned = false
	s.mu.Unlock()
}

// SetFs replaces the filesystem folders are scanned on.
func (s *LibraryScreen) SetFs(fs afero.Fs) {
	s.fs = fs
}

// Entries returns the last scan result.
func (s *LibraryScreen) Entries() []library.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

// Scanning reports whether a scan is in flight.
func (s *LibraryScreen) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Rescan lists the configured folder in the background. A newer rescan
// cancels and supersedes an older one.
func (s *LibraryScreen) Rescan() {
	folder := s.config.Library.Folder
	exts := s.config.Library.Extensions
	recursive := s.config.Library.Recursive

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.scanGen++
	gen := s.scanGen
	s.scanned = true
	if folder == "" {
		s.entries, s.scanErr, s.scanning, s.cancel = nil, nil, false, nil
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.scanning = true
	s.mu.Unlock()

	fs := s.fs
	go func() {
		entries, err := library.Scan(ctx, fs, folder, exts, recursive)
		s.ui.Post(func() {
			s.mu.Lock()
			if gen != s.scanGen {
				s.mu.Unlock()
				return
			}
			s.entries, s.scanErr, s.scanning = entries, err, false
			s.cancel = nil
			s.mu.Unlock()
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Warning: failed to scan %s: %v", folder, err)
			}
			s.callback.RequestRebuild()
		})
	}()
}

// ChooseFolder sets the ROM folder, saves the config and rescans.
func (s *LibraryScreen) ChooseFolder(path string) {
	s.config.Library.Folder = path
	if err := storage.SaveConfig(s.config); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
	s.listScrollTop = 0
	s.Rescan()
	s.callback.RequestRebuild()
}

func (s *LibraryScreen) onChooseFolderClick() {
	// The native dialog blocks, so it runs off the Ebiten thread
	go func() {
		path, err := dialog.Directory().
			Title("Select ROM Folder").
			Browse()
		if err != nil {
			return // cancelled
		}
		s.ui.Post(func() { s.ChooseFolder(path) })
	}()
}

// Build creates the library screen UI
func (s *LibraryScreen) Build() *widget.Container {
	s.mu.Lock()
	entries, scanning, scanErr := s.entries, s.scanning, s.scanErr
	s.mu.Unlock()

	root := style.ScreenContainer()
	inner := style.ScreenContentContainer([]bool{false, true})
	inner.AddChild(s.buildToolbar())

	switch {
	case s.config.Library.Folder == "":
		button := style.PrimaryTextButton("Choose Folder", style.ButtonPaddingMedium, func(*widget.ButtonClickedEventArgs) {
			s.onChooseFolderClick()
		})
		inner.AddChild(style.EmptyState("No ROM folder selected", "Pick the folder holding your .smc and .sfc files", button))
	case scanning && len(entries) == 0:
		inner.AddChild(style.EmptyState("Scanning...", s.config.Library.Folder, nil))
	case scanErr != nil && !errors.Is(scanErr, context.Canceled):
		inner.AddChild(style.EmptyState("Cannot read folder", scanErr.Error(), nil))
	case len(entries) == 0:
		inner.AddChild(style.EmptyState("No ROMs found", "Supported: "+strings.Join(s.config.Library.Extensions, " "), nil))
	default:
		inner.AddChild(s.buildListView(entries))
	}

	root.AddChild(inner)
	return root
}

func (s *LibraryScreen) buildToolbar() *widget.Container {
	toolbar := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(3),
			widget.GridLayoutOpts.Stretch([]bool{false, true, false}, nil),
			widget.GridLayoutOpts.Spacing(style.SmallSpacing, 0),
		)),
	)

	left := style.ButtonRow()
	left.AddChild(style.TextButton("Folder...", style.ButtonPaddingSmall, func(*widget.ButtonClickedEventArgs) {
		s.onChooseFolderClick()
	}))
	left.AddChild(style.TextButton("Rescan", style.ButtonPaddingSmall, func(*widget.ButtonClickedEventArgs) {
		s.Rescan()
		s.callback.RequestRebuild()
	}))
	toolbar.AddChild(left)

	folder, _ := style.TruncateStart(s.config.Library.Folder, 60)
	center := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	center.AddChild(widget.NewText(
		widget.TextOpts.Text(folder, style.FontFace(), style.TextSecondary),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	))
	toolbar.AddChild(center)

	crtLabel := "CRT: Off"
	if s.callback.CRTEnabled() {
		crtLabel = "CRT: On"
	}
	right := style.ButtonRow()
	right.AddChild(style.ToggleButton(crtLabel, s.callback.CRTEnabled(), func(*widget.ButtonClickedEventArgs) {
		s.callback.SetCRT(!s.callback.CRTEnabled())
		s.callback.RequestRebuild()
	}))
	right.AddChild(style.TextButton("Exit", style.ButtonPaddingSmall, func(*widget.ButtonClickedEventArgs) {
		s.callback.Exit()
	}))
	toolbar.AddChild(right)

	return toolbar
}

// columnWidths splits the window between name, type and size columns.
func columnWidths(windowWidth int) (name, kind, size int) {
	if windowWidth < style.MinLayoutWidth {
		windowWidth = style.DefaultWindowWidth
	}
	available := windowWidth - style.DefaultPadding*2 - style.ScrollbarWidth - style.TinySpacing
	overhead := 4 * style.SmallSpacing
	name = available - overhead - style.ListColType - style.ListColSize
	if name < style.ListMinTitleWidth {
		name = style.ListMinTitleWidth
	}
	return name, style.ListColType, style.ListColSize
}

// romKind is the upper-cased extension shown in the type column.
func romKind(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "-"
	}
	return strings.ToUpper(ext)
}

func (s *LibraryScreen) buildListView(entries []library.Entry) widget.PreferredSizeLocateableWidget {
	nameW, kindW, sizeW := columnWidths(s.callback.GetWindowWidth())
	face := *style.FontFace()

	rowLayout := func() widget.ContainerOpt {
		return widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(3),
			widget.GridLayoutOpts.Stretch([]bool{true, false, false}, nil),
			widget.GridLayoutOpts.Spacing(style.SmallSpacing, 0),
			widget.GridLayoutOpts.Padding(&widget.Insets{Left: style.SmallSpacing, Right: style.SmallSpacing}),
		))
	}

	header := widget.NewContainer(
		rowLayout(),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(0, style.ListHeaderHeight)),
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(style.Surface)),
	)
	header.AddChild(style.TableHeaderCell("Name", 0, style.ListHeaderHeight))
	header.AddChild(style.TableHeaderCell("Type", kindW, style.ListHeaderHeight))
	header.AddChild(style.TableHeaderCell("Size", sizeW, style.ListHeaderHeight))

	list := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		)),
	)

	for i, e := range entries {
		path := e.Path
		name, _ := style.TruncateToWidth(e.Name, face, float64(nameW))

		row := widget.NewContainer(
			rowLayout(),
			widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(0, style.ListRowHeight)),
		)
		row.AddChild(style.TableCell(name, 0, style.ListRowHeight, style.Text))
		row.AddChild(style.TableCell(romKind(e.Name), kindW, style.ListRowHeight, style.TextSecondary))
		row.AddChild(style.TableCell(style.FormatSize(e.Size), sizeW, style.ListRowHeight, style.TextSecondary))

		// the button underneath paints the row and takes the click
		button := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{
				Idle:    image.NewNineSliceColor(style.AlternatingRowColor(i)),
				Hover:   image.NewNineSliceColor(style.PrimaryHover),
				Pressed: image.NewNineSliceColor(style.Primary),
			}),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
				widget.WidgetOpts.MinSize(0, style.ListRowHeight),
			),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				if s.listScroll != nil {
					s.listScrollTop = s.listScroll.ScrollTop
				}
				s.callback.LaunchROM(path)
			}),
		)

		stack := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewStackedLayout()),
			widget.ContainerOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
				widget.WidgetOpts.MinSize(0, style.ListRowHeight),
			),
		)
		stack.AddChild(button)
		stack.AddChild(row)
		list.AddChild(stack)
	}

	scroll, slider, scrollArea := style.ScrollableContainer(list, style.Background)
	s.listScroll = scroll
	if s.listScrollTop > 0 {
		scroll.ScrollTop = s.listScrollTop
		slider.Current = int(s.listScrollTop * 1000)
	}

	headerRow := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(2),
			widget.GridLayoutOpts.Spacing(style.TinySpacing, 0),
			widget.GridLayoutOpts.Stretch([]bool{true, false}, nil),
		)),
	)
	headerRow.AddChild(header)
	headerRow.AddChild(widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(style.ScrollbarWidth, 0)),
	))

	view := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{false, true}),
			widget.GridLayoutOpts.Spacing(0, style.TinySpacing),
		)),
	)
	view.AddChild(headerRow)
	view.AddChild(scrollArea)
	return view
}

// OnEnter scans the folder the first time the screen is shown.
func (s *LibraryScreen) OnEnter() {
	s.mu.Lock()
	scanned := s.scanned
	s.mu.Unlock()
	if !scanned {
		s.Rescan()
	}
}
