package board

import (
	"testing"
	"time"

	"brewboard/internal/core/brewer"
	"brewboard/internal/core/column"
	"brewboard/internal/core/model"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardCatalog() model.Catalog {
	return model.Catalog{Ingredients: []model.Ingredient{
		{Name: "Green", Modes: map[model.Mode]model.ModeConfig{
			model.ModeHot: {Dose: 4.5, Stages: []model.StageSpec{
				{Duration: 30 * time.Second, Volume: 100},
				{Duration: 45 * time.Second, Volume: 150},
			}},
		}},
		{Name: "Black", Modes: map[model.Mode]model.ModeConfig{
			model.ModeMilk: {Dose: 8, Stages: []model.StageSpec{{Duration: 4 * time.Minute, Volume: 120}}},
		}},
	}}
}

func newTestBoard(t *testing.T) (*Window, []*column.Column, *clockwork.FakeClock) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	clock := clockwork.NewFakeClock()
	columns := column.NewBoard(2, boardCatalog(), model.DefaultEngineConfig(), clock, nil)
	t.Cleanup(func() {
		for _, col := range columns {
			col.Close()
		}
	})
	return New(app, columns, boardCatalog()), columns, clock
}

func TestSelectionEnablesStart(t *testing.T) {
	board, _, _ := newTestBoard(t)
	view := board.views[0]

	assert.True(t, view.startButton.Disabled())

	test.Tap(view.teaButtons[1])
	assert.Equal(t, widget.HighImportance, view.teaButtons[1].Importance)
	assert.True(t, view.modeButtons[model.ModeHot].Disabled())
	assert.False(t, view.modeButtons[model.ModeMilk].Disabled())

	test.Tap(view.modeButtons[model.ModeMilk])
	assert.False(t, view.startButton.Disabled())
}

func TestStartShowsStageTiles(t *testing.T) {
	board, columns, clock := newTestBoard(t)
	view := board.views[0]

	test.Tap(view.teaButtons[0])
	test.Tap(view.modeButtons[model.ModeHot])
	test.Tap(view.startButton)

	require.True(t, columns[0].View().Brewing.Active)
	assert.False(t, view.selection.Visible())
	assert.True(t, view.brewing.Visible())
	require.Len(t, view.tiles, 2)
	assert.Equal(t, "Hot Green", view.headerName.Text)
	assert.Equal(t, "4.5g", view.headerDose.Text)
	assert.Equal(t, float32(2), view.headerBox.StrokeWidth)
	assert.Equal(t, ":30", view.tiles[0].timer.Text)
	assert.Equal(t, "100ml", view.tiles[0].volume.Text)

	test.Tap(view.tiles[0])
	assert.Equal(t, brewer.StateRunning, columns[0].View().Brewing.Stages[0].State)
	assert.Equal(t, float32(0), view.headerBox.StrokeWidth)

	clock.Advance(10 * time.Second)
	test.Tap(view.tiles[0])
	assert.Equal(t, ":20", view.tiles[0].timer.Text)

	assert.False(t, board.views[1].brewing.Visible(), "other columns are untouched")
}

func TestCancelReturnsToSelection(t *testing.T) {
	board, columns, _ := newTestBoard(t)
	view := board.views[0]
	changes := 0
	board.SetOnChange(func() { changes++ })

	test.Tap(view.teaButtons[0])
	test.Tap(view.modeButtons[model.ModeHot])
	test.Tap(view.startButton)
	columns[0].Cancel()
	view.refresh()

	assert.True(t, view.selection.Visible())
	assert.False(t, view.brewing.Visible())
	assert.True(t, view.startButton.Disabled())
	assert.Equal(t, 3, changes)
}

func TestCancelAllClearsPartialSelections(t *testing.T) {
	board, columns, _ := newTestBoard(t)
	changes := 0
	board.SetOnChange(func() { changes++ })

	first := board.views[0]
	test.Tap(first.teaButtons[1])
	require.Equal(t, widget.HighImportance, first.teaButtons[1].Importance)

	second := board.views[1]
	test.Tap(second.teaButtons[0])
	test.Tap(second.modeButtons[model.ModeHot])
	test.Tap(second.startButton)
	require.True(t, columns[1].View().Brewing.Active)

	changes = 0
	board.CancelAll()

	assert.Equal(t, widget.MediumImportance, first.teaButtons[1].Importance)
	assert.False(t, first.modeButtons[model.ModeHot].Disabled())
	assert.False(t, columns[1].View().Brewing.Active)
	assert.True(t, second.selection.Visible())
	assert.False(t, second.brewing.Visible())
	assert.True(t, second.startButton.Disabled())
	assert.Equal(t, 1, changes)
}
