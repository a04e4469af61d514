package storage

import (
	"fmt"
	"os"
	"time"

	"brewboard/internal/core/model"
	"brewboard/resources"
	"gopkg.in/yaml.v3"
)

// yamlCatalog mirrors teas.json; JSON input parses as YAML.
type yamlCatalog struct {
	Teas []yamlTea `yaml:"teas"`
}

type yamlTea struct {
	Name  string              `yaml:"name"`
	Types map[string]yamlType `yaml:"types"`
}

type yamlType struct {
	Grams  float64     `yaml:"grams"`
	Stages []yamlStage `yaml:"stages"`
}

type yamlStage struct {
	Time   int `yaml:"time"`
	Volume int `yaml:"volume"`
}

// LoadCatalog reads a catalog file, or the built-in catalog when path is empty.
func LoadCatalog(path string) (model.Catalog, error) {
	if path == "" {
		return ParseCatalog(resources.DefaultCatalog())
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	catalog, err := ParseCatalog(rawData)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog decodes catalog YAML or JSON. Modes outside the known
// vocabulary are dropped; missing modes simply make that mode unavailable.
func ParseCatalog(rawData []byte) (model.Catalog, error) {
	var fileData yamlCatalog
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return model.Catalog{}, fmt.Errorf("parse catalog yaml: %w", err)
	}

	catalog := model.Catalog{Ingredients: make([]model.Ingredient, 0, len(fileData.Teas))}
	for _, tea := range fileData.Teas {
		ingredient := model.Ingredient{
			Name:  tea.Name,
			Modes: make(map[model.Mode]model.ModeConfig, len(tea.Types)),
		}
		for _, mode := range model.Modes {
			config, ok := tea.Types[string(mode)]
			if !ok {
				continue
			}
			stages := make([]model.StageSpec, 0, len(config.Stages))
			for _, stage := range config.Stages {
				stages = append(stages, model.StageSpec{
					Duration: time.Duration(stage.Time) * time.Second,
					Volume:   stage.Volume,
				})
			}
			ingredient.Modes[mode] = model.ModeConfig{Dose: config.Grams, Stages: stages}
		}
		catalog.Ingredients = append(catalog.Ingredients, ingredient)
	}
	return catalog, nil
}
