package preferences

import (
	"testing"
	"time"

	"brewboard/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsMatchEngineDefaults(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, 4, settings.Columns)
	assert.Equal(t, model.DefaultEngineConfig(), settings.EngineConfig())
}

func TestEngineConfigCarriesTimings(t *testing.T) {
	settings := Settings{TickInterval: 100 * time.Millisecond, ResetDelay: 3 * time.Second}

	config := settings.EngineConfig()

	assert.Equal(t, 100*time.Millisecond, config.TickInterval)
	assert.Equal(t, 3*time.Second, config.ResetDelay)
}

func TestClampColumns(t *testing.T) {
	assert.Equal(t, 1, ClampColumns(0))
	assert.Equal(t, 4, ClampColumns(4))
	assert.Equal(t, 8, ClampColumns(12))
}

func TestParsePositiveInt(t *testing.T) {
	value, ok := parsePositiveInt("250")
	assert.True(t, ok)
	assert.Equal(t, 250, value)

	_, ok = parsePositiveInt("0")
	assert.False(t, ok)
	_, ok = parsePositiveInt("abc")
	assert.False(t, ok)
}
