package board

import (
	"fmt"
	"image/color"

	"brewboard/internal/core/brewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var (
	colorText     = color.NRGBA{R: 244, G: 239, B: 230, A: 255}
	colorExpected = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	colorOutline  = color.NRGBA{R: 201, G: 228, B: 164, A: 255}
)

// stateColors maps each stage state to its tile background.
var stateColors = map[brewer.State]color.NRGBA{
	brewer.StateIdle:      {R: 58, G: 62, B: 66, A: 255},
	brewer.StateRunning:   {R: 47, G: 93, B: 80, A: 255},
	brewer.StatePaused:    {R: 138, G: 106, B: 36, A: 255},
	brewer.StateCompleted: {R: 163, G: 58, B: 52, A: 255},
	brewer.StateDone:      {R: 34, G: 36, B: 38, A: 255},
}

// stageTile is a tappable box showing one stage.
type stageTile struct {
	widget.BaseWidget

	background *canvas.Rectangle
	title      *canvas.Text
	volume     *canvas.Text
	timer      *canvas.Text
	check      *canvas.Text
	onTap      func()
}

func newStageTile(index int, onTap func()) *stageTile {
	tile := &stageTile{
		background: canvas.NewRectangle(stateColors[brewer.StateIdle]),
		title:      canvas.NewText(fmt.Sprintf("Stage %d", index+1), colorText),
		volume:     canvas.NewText("", colorText),
		timer:      canvas.NewText("", colorText),
		check:      canvas.NewText("", colorOutline),
		onTap:      onTap,
	}
	tile.background.CornerRadius = 8
	tile.title.TextStyle = fyne.TextStyle{Bold: true}
	tile.timer.TextSize = 28
	tile.timer.TextStyle = fyne.TextStyle{Monospace: true}
	tile.check.TextSize = 22
	tile.ExtendBaseWidget(tile)
	return tile
}

func (tile *stageTile) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewPadded(container.NewVBox(
		container.NewHBox(tile.title, tile.check),
		tile.volume,
		tile.timer,
	))
	return widget.NewSimpleRenderer(container.NewStack(tile.background, content))
}

// Tapped forwards the tap to the column.
func (tile *stageTile) Tapped(*fyne.PointEvent) {
	if tile.onTap != nil {
		tile.onTap()
	}
}

func (tile *stageTile) update(view brewer.StageView) {
	tile.background.FillColor = stateColors[view.State]
	if view.Expected {
		tile.background.StrokeColor = colorExpected
		tile.background.StrokeWidth = 3
	} else {
		tile.background.StrokeWidth = 0
	}
	tile.volume.Text = fmt.Sprintf("%dml", view.Volume)
	tile.timer.Text = view.Display
	tile.check.Text = ""
	if view.State == brewer.StateDone {
		tile.check.Text = "✓"
	}
	tile.Refresh()
	tile.background.Refresh()
	tile.volume.Refresh()
	tile.timer.Refresh()
	tile.check.Refresh()
}
