package preferences

import (
	"time"

	"brewboard/internal/core/model"
)

const (
	MinColumns = 1
	MaxColumns = 8
)

// Settings defines editable user preferences.
type Settings struct {
	Columns      int
	TickInterval time.Duration
	ResetDelay   time.Duration
	CatalogPath  string
}

// DefaultSettings returns default settings for Brewboard.
func DefaultSettings() Settings {
	return Settings{
		Columns:      4,
		TickInterval: 250 * time.Millisecond,
		ResetDelay:   time.Second,
	}
}

// EngineConfig converts settings to the stage engine configuration.
func (settings Settings) EngineConfig() model.EngineConfig {
	return model.EngineConfig{
		TickInterval: settings.TickInterval,
		ResetDelay:   settings.ResetDelay,
	}
}

// ClampColumns bounds a column count to the supported range.
func ClampColumns(columns int) int {
	if columns < MinColumns {
		return MinColumns
	}
	if columns > MaxColumns {
		return MaxColumns
	}
	return columns
}
