package style

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
)

// TextButton creates a standard text button.
func TextButton(label string, padding int, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return newButton(ButtonImage(), label, padding, handler)
}

// PrimaryTextButton creates a prominent text button for the main action
// of a screen, such as "Play".
func PrimaryTextButton(label string, padding int, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return newButton(PrimaryButtonImage(), label, padding, handler)
}

// ToggleButton creates a button showing an on/off state, like the CRT switch.
func ToggleButton(label string, active bool, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return newButton(ActiveButtonImage(active), label, ButtonPaddingSmall, handler)
}

func newButton(img *widget.ButtonImage, label string, padding int, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(img),
		widget.ButtonOpts.Text(label, FontFace(), ButtonTextColor()),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(padding)),
		widget.ButtonOpts.ClickedHandler(handler),
	)
}

// Label creates centered text.
func Label(s string, c color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, FontFace(), c),
		widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
	)
}

// RowLabel creates text vertically centered inside a horizontal row.
func RowLabel(s string, c color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, FontFace(), c),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	)
}

// TableCell creates a fixed-size cell with one line of text.
func TableCell(s string, width, height int, textColor color.Color) *widget.Container {
	cell := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, height),
		),
	)
	cell.AddChild(widget.NewText(
		widget.TextOpts.Text(s, FontFace(), textColor),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				VerticalPosition: widget.AnchorLayoutPositionCenter,
			}),
		),
	))
	return cell
}

// TableHeaderCell creates a column header cell.
func TableHeaderCell(s string, width, height int) *widget.Container {
	return TableCell(s, width, height, TextSecondary)
}

// ScrollableContainer wraps content in a scroll area with a vertical
// slider. The wrapper is what gets added to the parent layout.
func ScrollableContainer(content *widget.Container, bg color.Color) (*widget.ScrollContainer, *widget.Slider, widget.PreferredSizeLocateableWidget) {
	sc := widget.NewScrollContainer(
		widget.ScrollContainerOpts.Content(content),
		widget.ScrollContainerOpts.StretchContentWidth(),
		widget.ScrollContainerOpts.Image(&widget.ScrollContainerImage{
			Idle: image.NewNineSliceColor(bg),
			Mask: image.NewNineSliceColor(bg),
		}),
	)

	needsScroll := func() bool {
		content, view := sc.ContentRect().Dy(), sc.ViewRect().Dy()
		return content > 0 && view > 0 && content > view
	}

	slider := widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionVertical),
		widget.SliderOpts.MinMax(0, 1000),
		widget.SliderOpts.Images(
			&widget.SliderTrackImage{
				Idle:  image.NewNineSliceColor(Border),
				Hover: image.NewNineSliceColor(Border),
			},
			SliderButtonImage(),
		),
		widget.SliderOpts.FixedHandleSize(40),
		widget.SliderOpts.PageSizeFunc(func() int {
			if !needsScroll() {
				return 1000
			}
			return int(float64(sc.ViewRect().Dy()) / float64(sc.ContentRect().Dy()) * 1000)
		}),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			if !needsScroll() {
				sc.ScrollTop = 0
				return
			}
			sc.ScrollTop = float64(args.Current) / 1000
		}),
	)

	sc.GetWidget().ScrolledEvent.AddHandler(func(args interface{}) {
		if !needsScroll() {
			sc.ScrollTop = 0
			return
		}
		a := args.(*widget.WidgetScrolledEventArgs)
		sc.ScrollTop = clamp01(sc.ScrollTop + a.Y*ScrollWheelSensitivity)
		slider.Current = int(sc.ScrollTop * 1000)
	})

	wrapper := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(2),
			widget.GridLayoutOpts.Stretch([]bool{true, false}, []bool{true}),
			widget.GridLayoutOpts.Spacing(TinySpacing, 0),
		)),
	)
	wrapper.AddChild(sc)
	wrapper.AddChild(slider)
	return sc, slider, wrapper
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CenteredContainer creates a vertical stack centered in an anchor parent.
func CenteredContainer(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(spacing),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
}

// EmptyState creates a centered title with optional subtitle and button.
func EmptyState(title, subtitle string, button *widget.Button) *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	center := CenteredContainer(DefaultSpacing)
	center.AddChild(Label(title, Text))
	if subtitle != "" {
		center.AddChild(Label(subtitle, TextSecondary))
	}
	if button != nil {
		center.AddChild(button)
	}

	container.AddChild(center)
	return container
}

// ScreenContainer creates a full-screen root container with background.
func ScreenContainer() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(Background)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
}

// ScreenContentContainer creates the padded single-column grid every
// screen lays its rows out in. rowStretch selects the rows that grow.
func ScreenContentContainer(rowStretch []bool) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(DefaultPadding)),
			widget.GridLayoutOpts.Spacing(DefaultSpacing, DefaultSpacing),
			widget.GridLayoutOpts.Stretch([]bool{true}, rowStretch),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal: true,
				StretchVertical:   true,
			}),
		),
	)
}

// ButtonRow creates a horizontal container for buttons.
func ButtonRow() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(SmallSpacing),
		)),
	)
}

// AlternatingRowColor returns Background for even rows and Surface for odd.
func AlternatingRowColor(index int) color.Color {
	if index%2 == 0 {
		return Background
	}
	return Surface
}
