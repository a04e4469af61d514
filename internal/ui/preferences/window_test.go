package preferences

import (
	"testing"
	"time"

	"brewboard/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveClampsValues(t *testing.T) {
	app := test.NewApp()
	t.Cleanup(app.Quit)

	var saved *Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = &settings
	})

	prefs.columns.SetText("20")
	prefs.tickMillis.SetText("10000")
	prefs.resetDelay.SetText(" 1500 ")
	prefs.catalog.SetText("  /tmp/teas.yaml ")
	prefs.handleSave()

	require.NotNil(t, saved)
	assert.Equal(t, MaxColumns, saved.Columns)
	assert.Equal(t, model.MaxTickInterval, saved.TickInterval)
	assert.Equal(t, 1500*time.Millisecond, saved.ResetDelay)
	assert.Equal(t, "/tmp/teas.yaml", saved.CatalogPath)
	assert.Equal(t, "1000", prefs.tickMillis.Text)
}

func TestSaveKeepsPreviousValuesForInvalidInput(t *testing.T) {
	app := test.NewApp()
	t.Cleanup(app.Quit)

	var saved Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = settings
	})

	prefs.tickMillis.SetText("fast")
	prefs.resetDelay.SetText("-1")
	prefs.handleSave()

	assert.Equal(t, DefaultSettings().TickInterval, saved.TickInterval)
	assert.Equal(t, DefaultSettings().ResetDelay, saved.ResetDelay)
}
