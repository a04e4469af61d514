package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"brewboard/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	columns    *widget.Entry
	tickMillis *widget.Entry
	resetDelay *widget.Entry
	catalog    *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Brewboard Settings")

	columns := widget.NewEntry()
	tickMillis := widget.NewEntry()
	resetDelay := widget.NewEntry()
	catalog := widget.NewEntry()
	catalog.SetPlaceHolder("built-in catalog")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Board", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Columns"), columns, widget.NewLabel("(next launch)")),
		container.NewHBox(widget.NewLabel("Refresh every"), tickMillis, widget.NewLabel("ms")),
		container.NewHBox(widget.NewLabel("Reset after last stage"), resetDelay, widget.NewLabel("ms")),
		widget.NewLabelWithStyle("Catalog", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		catalog,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 300))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		columns:    columns,
		tickMillis: tickMillis,
		resetDelay: resetDelay,
		catalog:    catalog,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.columns.SetText(fmt.Sprintf("%d", settings.Columns))
	prefs.tickMillis.SetText(fmt.Sprintf("%d", settings.TickInterval.Milliseconds()))
	prefs.resetDelay.SetText(fmt.Sprintf("%d", settings.ResetDelay.Milliseconds()))
	prefs.catalog.SetText(settings.CatalogPath)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if columns, ok := parsePositiveInt(prefs.columns.Text); ok {
		settings.Columns = ClampColumns(columns)
	}
	if millis, ok := parsePositiveInt(prefs.tickMillis.Text); ok {
		settings.TickInterval = model.ClampTickInterval(time.Duration(millis) * time.Millisecond)
	}
	if millis, ok := parsePositiveInt(prefs.resetDelay.Text); ok {
		settings.ResetDelay = time.Duration(millis) * time.Millisecond
	}
	settings.CatalogPath = strings.TrimSpace(prefs.catalog.Text)

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
