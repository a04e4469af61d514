package model

import (
	"strings"
	"time"
)

// Mode is a preparation mode key.
type Mode string

const (
	ModeHot  Mode = "hot"
	ModeIce  Mode = "ice"
	ModeMilk Mode = "milk"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeHot, ModeIce, ModeMilk}

// Label returns the capitalised display name of the mode.
func (mode Mode) Label() string {
	if mode == "" {
		return ""
	}
	return strings.ToUpper(string(mode[:1])) + string(mode[1:])
}

// StageSpec is one timed interval of a brew.
type StageSpec struct {
	Duration time.Duration
	Volume   int
}

// ModeConfig holds the dose and stage list for one ingredient/mode pair.
type ModeConfig struct {
	Dose   float64
	Stages []StageSpec
}

// Ingredient is a catalog entry.
type Ingredient struct {
	Name  string
	Modes map[Mode]ModeConfig
}

// Supports reports whether the ingredient defines a configuration for mode.
func (ingredient Ingredient) Supports(mode Mode) bool {
	_, ok := ingredient.Modes[mode]
	return ok
}

// Catalog is the read-only set of brewable ingredients.
type Catalog struct {
	Ingredients []Ingredient
}

// Names returns ingredient display names in catalog order.
func (catalog Catalog) Names() []string {
	names := make([]string, 0, len(catalog.Ingredients))
	for _, ingredient := range catalog.Ingredients {
		names = append(names, ingredient.Name)
	}
	return names
}

// BrewPlan is the immutable input of a brewing session.
type BrewPlan struct {
	Label  string
	Dose   float64
	Stages []StageSpec
}
