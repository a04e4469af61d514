// Package selection holds the ingredient/mode choice of a single column.
package selection

import (
	"errors"
	"sync"

	"brewboard/internal/core/model"
)

// ErrNotReady indicates BuildSession was called before both selections were made.
var ErrNotReady = errors.New("selection incomplete")

// View is the presentation projection of a Controller.
type View struct {
	Ingredient    int
	HasIngredient bool
	Mode          model.Mode
	Available     map[model.Mode]bool
	Ready         bool
}

// Controller tracks the chosen ingredient and mode for one column.
type Controller struct {
	mu         sync.Mutex
	catalog    model.Catalog
	ingredient int
	hasIngr    bool
	mode       model.Mode
	available  map[model.Mode]bool
}

// New creates a Controller over a read-only catalog.
func New(catalog model.Catalog) *Controller {
	return &Controller{
		catalog:   catalog,
		available: map[model.Mode]bool{},
	}
}

// ChooseIngredient selects an ingredient and clears the mode.
func (controller *Controller) ChooseIngredient(index int) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if index < 0 || index >= len(controller.catalog.Ingredients) {
		return
	}

	controller.ingredient = index
	controller.hasIngr = true
	controller.mode = ""

	ingredient := controller.catalog.Ingredients[index]
	available := make(map[model.Mode]bool, len(model.Modes))
	for _, mode := range model.Modes {
		available[mode] = ingredient.Supports(mode)
	}
	controller.available = available
}

// ChooseMode selects a mode if it is valid for the current ingredient.
func (controller *Controller) ChooseMode(mode model.Mode) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.hasIngr || !controller.available[mode] {
		return
	}
	controller.mode = mode
}

// Ready reports whether both an ingredient and a mode are selected.
func (controller *Controller) Ready() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.readyLocked()
}

// BuildSession returns the brew plan for the current selection.
func (controller *Controller) BuildSession() (model.BrewPlan, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.readyLocked() {
		return model.BrewPlan{}, ErrNotReady
	}

	ingredient := controller.catalog.Ingredients[controller.ingredient]
	config := ingredient.Modes[controller.mode]
	stages := make([]model.StageSpec, len(config.Stages))
	copy(stages, config.Stages)

	return model.BrewPlan{
		Label:  controller.mode.Label() + " " + ingredient.Name,
		Dose:   config.Dose,
		Stages: stages,
	}, nil
}

// Clear drops both selections.
func (controller *Controller) Clear() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.ingredient = 0
	controller.hasIngr = false
	controller.mode = ""
	controller.available = map[model.Mode]bool{}
}

// View returns a copy of the current selection state.
func (controller *Controller) View() View {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	available := make(map[model.Mode]bool, len(controller.available))
	for mode, ok := range controller.available {
		available[mode] = ok
	}
	return View{
		Ingredient:    controller.ingredient,
		HasIngredient: controller.hasIngr,
		Mode:          controller.mode,
		Available:     available,
		Ready:         controller.readyLocked(),
	}
}

func (controller *Controller) readyLocked() bool {
	return controller.hasIngr && controller.mode != ""
}
