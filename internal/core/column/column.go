// Package column binds a selection controller to a stage engine. A board is
// a set of independent columns.
package column

import (
	"errors"
	"fmt"
	"sync"

	"brewboard/internal/core/brewer"
	"brewboard/internal/core/model"
	"brewboard/internal/core/selection"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// View combines selection and brewing state for rendering.
type View struct {
	Index     int
	Selection selection.View
	Brewing   brewer.Snapshot
}

// Column is one independent brewing lane.
type Column struct {
	mu        sync.Mutex
	index     int
	selection *selection.Controller
	engine    *brewer.Engine
	logger    *zap.Logger
	sessionID string
}

// New creates a column over the shared read-only catalog.
func New(index int, catalog model.Catalog, config model.EngineConfig, clock clockwork.Clock, logger *zap.Logger) *Column {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Int("column", index))

	col := &Column{
		index:     index,
		selection: selection.New(catalog),
		logger:    logger,
	}
	col.engine = brewer.New(config, brewer.Options{Clock: clock, Logger: logger})
	col.engine.SetOnReset(col.handleReset)
	return col
}

// NewBoard creates count independent columns.
func NewBoard(count int, catalog model.Catalog, config model.EngineConfig, clock clockwork.Clock, logger *zap.Logger) []*Column {
	columns := make([]*Column, 0, count)
	for index := 0; index < count; index++ {
		columns = append(columns, New(index, catalog, config, clock, logger))
	}
	return columns
}

// Index returns the column position on the board.
func (col *Column) Index() int {
	return col.index
}

// Engine exposes the stage engine for event subscription.
func (col *Column) Engine() *brewer.Engine {
	return col.engine
}

// ChooseIngredient forwards to the selection controller while not brewing.
func (col *Column) ChooseIngredient(index int) {
	if col.engine.Active() {
		return
	}
	col.selection.ChooseIngredient(index)
}

// ChooseMode forwards to the selection controller while not brewing.
func (col *Column) ChooseMode(mode model.Mode) {
	if col.engine.Active() {
		return
	}
	col.selection.ChooseMode(mode)
}

// Ready reports whether Start would begin a session.
func (col *Column) Ready() bool {
	return !col.engine.Active() && col.selection.Ready()
}

// Start begins brewing the selected ingredient/mode. It is a no-op unless
// Ready reports true.
func (col *Column) Start() error {
	col.mu.Lock()
	defer col.mu.Unlock()

	if col.engine.Active() {
		return nil
	}
	plan, err := col.selection.BuildSession()
	if errors.Is(err, selection.ErrNotReady) {
		col.logger.Debug("start ignored", zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("build session: %w", err)
	}

	col.sessionID = col.engine.Begin(plan)
	col.logger.Info("brew started",
		zap.String("session", col.sessionID),
		zap.String("label", plan.Label),
		zap.Int("stages", len(plan.Stages)))
	return nil
}

// Tap forwards a stage tap to the engine.
func (col *Column) Tap(stage int) {
	col.engine.Tap(stage)
}

// Cancel stops the session and returns the column to selection.
func (col *Column) Cancel() {
	col.engine.Cancel()
	col.mu.Lock()
	defer col.mu.Unlock()
	col.selection.Clear()
	col.sessionID = ""
}

// Close releases the engine.
func (col *Column) Close() {
	col.engine.Close()
}

// View returns the current projection of the column.
func (col *Column) View() View {
	return View{
		Index:     col.index,
		Selection: col.selection.View(),
		Brewing:   col.engine.Snapshot(),
	}
}

func (col *Column) handleReset(sessionID string) {
	col.mu.Lock()
	defer col.mu.Unlock()
	if col.sessionID != sessionID {
		return
	}
	col.selection.Clear()
	col.sessionID = ""
	col.logger.Info("brew reset", zap.String("session", sessionID))
}
