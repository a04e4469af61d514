// Package board renders the brewing columns side by side.
package board

import (
	"image/color"
	"strconv"

	"brewboard/internal/core/brewer"
	"brewboard/internal/core/column"
	"brewboard/internal/core/model"
	"brewboard/internal/core/selection"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Window is the main board window.
type Window struct {
	window   fyne.Window
	views    []*columnView
	onChange func()
}

// New creates the board window for the given columns.
func New(app fyne.App, columns []*column.Column, catalog model.Catalog) *Window {
	window := app.NewWindow("Brewboard")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	board := &Window{window: window}
	objects := make([]fyne.CanvasObject, 0, len(columns))
	for _, col := range columns {
		view := newColumnView(col, catalog, board.notify)
		board.views = append(board.views, view)
		objects = append(objects, view.root)
	}

	window.SetContent(container.NewGridWithColumns(len(objects), objects...))
	window.Resize(fyne.NewSize(float32(260*len(objects)), 640))
	return board
}

// SetOnChange registers a handler called after any column changes state.
func (board *Window) SetOnChange(handler func()) {
	board.onChange = handler
}

// SetCloseIntercept overrides the close button behaviour.
func (board *Window) SetCloseIntercept(handler func()) {
	board.window.SetCloseIntercept(handler)
}

// Show displays the board.
func (board *Window) Show() {
	board.window.Show()
	board.window.RequestFocus()
}

// Hide hides the board.
func (board *Window) Hide() {
	board.window.Hide()
}

// CancelAll cancels every column and redraws the board. Columns without a
// session emit no engine event, so their views are refreshed here.
func (board *Window) CancelAll() {
	for _, view := range board.views {
		view.col.Cancel()
		view.refresh()
	}
	board.notify()
}

// Watch subscribes to every column engine and refreshes on events. It
// returns once all engines are closed.
func (board *Window) Watch() {
	done := make(chan struct{}, len(board.views))
	for _, view := range board.views {
		go func(view *columnView) {
			defer func() { done <- struct{}{} }()
			for event := range view.col.Engine().Subscribe(16) {
				structural := event.Type != brewer.EventProgress
				fyne.Do(func() {
					view.refresh()
					if structural {
						board.notify()
					}
				})
			}
		}(view)
	}
	for range board.views {
		<-done
	}
}

func (board *Window) notify() {
	if board.onChange != nil {
		board.onChange()
	}
}

type columnView struct {
	col      *column.Column
	catalog  model.Catalog
	onChange func()

	teaButtons  []*widget.Button
	modeButtons map[model.Mode]*widget.Button
	startButton *widget.Button
	selection   *fyne.Container

	headerBox  *canvas.Rectangle
	headerName *widget.Label
	headerDose *widget.Label
	stages     *fyne.Container
	tiles      []*stageTile
	sessionID  string
	brewing    *fyne.Container

	root *fyne.Container
}

func newColumnView(col *column.Column, catalog model.Catalog, onChange func()) *columnView {
	view := &columnView{
		col:         col,
		catalog:     catalog,
		onChange:    onChange,
		modeButtons: make(map[model.Mode]*widget.Button, len(model.Modes)),
	}

	teaList := container.NewVBox(widget.NewLabelWithStyle("Tea", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for index, name := range catalog.Names() {
		index := index
		button := widget.NewButton(name, func() {
			view.col.ChooseIngredient(index)
			view.changed()
		})
		view.teaButtons = append(view.teaButtons, button)
		teaList.Add(button)
	}

	modeList := container.NewVBox(widget.NewLabelWithStyle("Type", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, mode := range model.Modes {
		mode := mode
		button := widget.NewButton(mode.Label(), func() {
			view.col.ChooseMode(mode)
			view.changed()
		})
		view.modeButtons[mode] = button
		modeList.Add(button)
	}

	view.startButton = widget.NewButton("Start", func() {
		if err := view.col.Start(); err != nil {
			fyne.LogError("start brew", err)
		}
		view.changed()
	})
	view.startButton.Importance = widget.HighImportance

	view.selection = container.NewBorder(nil, view.startButton, nil, nil,
		container.NewVScroll(container.NewVBox(teaList, modeList)))

	view.headerBox = canvas.NewRectangle(color.Transparent)
	view.headerBox.CornerRadius = 8
	view.headerName = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	view.headerDose = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	header := container.NewStack(view.headerBox, container.NewVBox(view.headerName, view.headerDose))

	view.stages = container.NewVBox()
	cancelButton := widget.NewButton("Cancel", func() {
		view.col.Cancel()
		view.changed()
	})
	cancelButton.Importance = widget.DangerImportance
	view.brewing = container.NewBorder(header, cancelButton, nil, nil, container.NewVScroll(view.stages))

	view.root = container.NewStack(view.selection, view.brewing)
	view.refresh()
	return view
}

func (view *columnView) changed() {
	view.refresh()
	if view.onChange != nil {
		view.onChange()
	}
}

func (view *columnView) refresh() {
	state := view.col.View()
	if state.Brewing.Active {
		view.selection.Hide()
		view.refreshBrewing(state.Brewing)
		view.brewing.Show()
		return
	}
	view.brewing.Hide()
	view.sessionID = ""
	view.refreshSelection(state.Selection)
	view.selection.Show()
}

func (view *columnView) refreshSelection(current selection.View) {
	for index, button := range view.teaButtons {
		importance := widget.MediumImportance
		if current.HasIngredient && current.Ingredient == index {
			importance = widget.HighImportance
		}
		setImportance(button, importance)
	}

	for mode, button := range view.modeButtons {
		importance := widget.MediumImportance
		if current.Mode == mode {
			importance = widget.HighImportance
		}
		setImportance(button, importance)
		if current.HasIngredient && !current.Available[mode] {
			button.Disable()
		} else {
			button.Enable()
		}
	}

	if current.Ready {
		view.startButton.Enable()
	} else {
		view.startButton.Disable()
	}
}

func (view *columnView) refreshBrewing(snapshot brewer.Snapshot) {
	if snapshot.SessionID != view.sessionID {
		view.sessionID = snapshot.SessionID
		view.tiles = view.tiles[:0]
		view.stages.RemoveAll()
		for index := range snapshot.Stages {
			index := index
			tile := newStageTile(index, func() {
				view.col.Tap(index)
				view.changed()
			})
			view.tiles = append(view.tiles, tile)
			view.stages.Add(tile)
		}
		view.headerName.SetText(snapshot.Label)
		view.headerDose.SetText(strconv.FormatFloat(snapshot.Dose, 'f', -1, 64) + "g")
	}

	if snapshot.HeaderOutlined {
		view.headerBox.StrokeColor = colorOutline
		view.headerBox.StrokeWidth = 2
	} else {
		view.headerBox.StrokeWidth = 0
	}
	view.headerBox.Refresh()

	for index, stage := range snapshot.Stages {
		if index < len(view.tiles) {
			view.tiles[index].update(stage)
		}
	}
}

func setImportance(button *widget.Button, importance widget.Importance) {
	if button.Importance == importance {
		return
	}
	button.Importance = importance
	button.Refresh()
}
