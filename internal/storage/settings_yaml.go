package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"brewboard/internal/core/model"
	"brewboard/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Columns          int    `yaml:"columns"`
	TickMillis       int    `yaml:"tick_millis"`
	ResetDelayMillis int    `yaml:"reset_delay_millis"`
	CatalogPath      string `yaml:"catalog_path,omitempty"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Columns:          settings.Columns,
		TickMillis:       int(settings.TickInterval / time.Millisecond),
		ResetDelayMillis: int(settings.ResetDelay / time.Millisecond),
		CatalogPath:      settings.CatalogPath,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Columns > 0 {
		settings.Columns = preferences.ClampColumns(fileData.Columns)
	}
	if fileData.TickMillis > 0 {
		settings.TickInterval = model.ClampTickInterval(time.Duration(fileData.TickMillis) * time.Millisecond)
	}
	if fileData.ResetDelayMillis > 0 {
		settings.ResetDelay = time.Duration(fileData.ResetDelayMillis) * time.Millisecond
	}
	settings.CatalogPath = fileData.CatalogPath
}
