// Package brewer implements the per-column stage engine: an ordered set of
// timed stages driven by taps, with wall-clock based countdowns.
package brewer

import (
	"sync"
	"time"

	"brewboard/internal/core/model"

	"github.com/jonboulle/clockwork"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

// Options contains collaborators for an Engine.
type Options struct {
	Clock  clockwork.Clock
	Logger *zap.Logger
}

// StageView is the presentation projection of one stage.
type StageView struct {
	Index     int
	State     State
	Total     time.Duration
	Remaining time.Duration
	Display   string
	Volume    int
	Expected  bool
}

// Snapshot is the presentation projection of the whole session.
type Snapshot struct {
	SessionID      string
	Active         bool
	Label          string
	Dose           float64
	HeaderOutlined bool
	Complete       bool
	Stages         []StageView
}

type stageRun struct {
	ticker clockwork.Ticker
	stop   chan struct{}
}

type stage struct {
	state        State
	total        time.Duration
	remaining    time.Duration
	runStartedAt time.Time
	volume       int
	expected     bool
	run          *stageRun
}

type session struct {
	id             string
	label          string
	dose           float64
	stages         []*stage
	headerOutlined bool
}

// Engine is the stage state machine of a single column.
type Engine struct {
	mu         sync.Mutex
	config     model.EngineConfig
	clock      clockwork.Clock
	logger     *zap.Logger
	session    *session
	resetTimer clockwork.Timer
	onReset    func(sessionID string)
	events     []chan Event
	closed     bool
}

// New creates an Engine with the provided configuration.
func New(config model.EngineConfig, options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &Engine{
		config: normalizeConfig(config),
		clock:  options.Clock,
		logger: options.Logger,
	}
}

// SetOnReset registers a hook called after a session is reset or cancelled.
// The hook runs outside the engine lock.
func (engine *Engine) SetOnReset(handler func(sessionID string)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.onReset = handler
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// UpdateConfig replaces timing options. Runs already in flight keep their
// tick interval.
func (engine *Engine) UpdateConfig(config model.EngineConfig) {
	engine.mu.Lock()
	engine.config = normalizeConfig(config)
	engine.mu.Unlock()
}

// Begin replaces any current session with a fresh one built from plan.
func (engine *Engine) Begin(plan model.BrewPlan) string {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.discardLocked()

	stages := make([]*stage, 0, len(plan.Stages))
	for _, spec := range plan.Stages {
		total := spec.Duration.Truncate(time.Second)
		if total < 0 {
			total = 0
		}
		stages = append(stages, &stage{
			state:     StateIdle,
			total:     total,
			remaining: total,
			volume:    spec.Volume,
		})
	}

	current := &session{
		id:             xid.New().String(),
		label:          plan.Label,
		dose:           plan.Dose,
		stages:         stages,
		headerOutlined: true,
	}
	engine.session = current

	engine.logger.Debug("session started",
		zap.String("session", current.id),
		zap.String("label", current.label),
		zap.Int("stages", len(stages)))
	engine.emitLocked(Event{
		Type:      EventSessionStarted,
		SessionID: current.id,
		Stage:     -1,
		At:        engine.clock.Now(),
	})
	return current.id
}

// Tap applies the single user action to the stage at index.
func (engine *Engine) Tap(index int) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	current := engine.session
	if current == nil || index < 0 || index >= len(current.stages) {
		engine.logger.Debug("tap ignored", zap.Int("stage", index))
		return
	}

	now := engine.clock.Now()
	switch current.stages[index].state {
	case StateIdle:
		engine.pauseAllRunningLocked(now)
		current.headerOutlined = false
		engine.runLocked(index, now)
	case StateRunning:
		engine.pauseLocked(index, now)
	case StatePaused:
		engine.pauseAllRunningLocked(now)
		engine.runLocked(index, now)
	case StateCompleted:
		engine.dismissLocked(index, now)
	case StateDone:
	}
}

// Cancel stops every timer and clears the session.
func (engine *Engine) Cancel() {
	engine.mu.Lock()
	sessionID := engine.discardLocked()
	if sessionID == "" {
		engine.mu.Unlock()
		return
	}
	engine.logger.Debug("session cancelled", zap.String("session", sessionID))
	engine.finishReset(sessionID)
}

// Close cancels the session and closes all observer channels.
func (engine *Engine) Close() {
	engine.Cancel()

	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Active reports whether a session is in progress.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.session != nil
}

// Running returns the number of running stages.
func (engine *Engine) Running() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.session == nil {
		return 0
	}
	count := 0
	for _, stg := range engine.session.stages {
		if stg.state == StateRunning {
			count++
		}
	}
	return count
}

// ActiveTimers returns the number of live timer handles held by the engine.
func (engine *Engine) ActiveTimers() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	count := 0
	if engine.resetTimer != nil {
		count++
	}
	if engine.session == nil {
		return count
	}
	for _, stg := range engine.session.stages {
		if stg.run != nil {
			count++
		}
	}
	return count
}

// Snapshot returns the current session state with interpolated countdowns.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	current := engine.session
	if current == nil {
		return Snapshot{}
	}

	now := engine.clock.Now()
	views := make([]StageView, 0, len(current.stages))
	for index, stg := range current.stages {
		remaining := stg.displayRemaining(now)
		views = append(views, StageView{
			Index:     index,
			State:     stg.state,
			Total:     stg.total,
			Remaining: remaining,
			Display:   FormatRemaining(remaining),
			Volume:    stg.volume,
			Expected:  stg.expected,
		})
	}

	return Snapshot{
		SessionID:      current.id,
		Active:         true,
		Label:          current.label,
		Dose:           current.dose,
		HeaderOutlined: current.headerOutlined,
		Complete:       current.allDone(),
		Stages:         views,
	}
}

func (engine *Engine) runLocked(index int, now time.Time) {
	current := engine.session
	stg := current.stages[index]
	current.clearExpected()

	run := &stageRun{
		ticker: engine.clock.NewTicker(engine.config.TickInterval),
		stop:   make(chan struct{}),
	}
	stg.runStartedAt = now
	stg.run = run
	engine.setStateLocked(index, StateRunning, now)

	go engine.watch(current.id, index, run)
}

func (engine *Engine) pauseLocked(index int, now time.Time) {
	stg := engine.session.stages[index]
	elapsed := elapsedSince(stg.runStartedAt, now)
	engine.releaseLocked(stg)
	stg.remaining -= elapsed
	if stg.remaining < 0 {
		stg.remaining = 0
	}
	engine.setStateLocked(index, StatePaused, now)
}

func (engine *Engine) pauseAllRunningLocked(now time.Time) {
	for index, stg := range engine.session.stages {
		if stg.state == StateRunning {
			engine.pauseLocked(index, now)
		}
	}
}

func (engine *Engine) completeLocked(index int, now time.Time) {
	stg := engine.session.stages[index]
	engine.releaseLocked(stg)
	stg.remaining = 0
	engine.setStateLocked(index, StateCompleted, now)
}

func (engine *Engine) dismissLocked(index int, now time.Time) {
	current := engine.session
	engine.setStateLocked(index, StateDone, now)

	if current.allDone() {
		sessionID := current.id
		engine.emitLocked(Event{
			Type:      EventSessionComplete,
			SessionID: sessionID,
			Stage:     -1,
			At:        now,
		})
		engine.stopResetLocked()
		engine.resetTimer = engine.clock.AfterFunc(engine.config.ResetDelay, func() {
			engine.expire(sessionID)
		})
		return
	}

	current.clearExpected()
	for next := index + 1; next < len(current.stages); next++ {
		if current.stages[next].state == StateIdle {
			current.stages[next].expected = true
			break
		}
	}
}

func (engine *Engine) expire(sessionID string) {
	engine.mu.Lock()
	if engine.session == nil || engine.session.id != sessionID {
		engine.mu.Unlock()
		return
	}
	engine.resetTimer = nil
	engine.discardLocked()
	engine.logger.Debug("session reset", zap.String("session", sessionID))
	engine.finishReset(sessionID)
}

// finishReset releases the lock, runs the reset hook and then notifies
// observers, so they see the column after the hook has cleaned up.
func (engine *Engine) finishReset(sessionID string) {
	hook := engine.onReset
	engine.mu.Unlock()

	if hook != nil {
		hook(sessionID)
	}
	engine.emit(Event{
		Type:      EventSessionReset,
		SessionID: sessionID,
		Stage:     -1,
		At:        engine.clock.Now(),
	})
}

// discardLocked releases every timer and drops the session, returning its id.
func (engine *Engine) discardLocked() string {
	engine.stopResetLocked()
	current := engine.session
	if current == nil {
		return ""
	}
	for _, stg := range current.stages {
		engine.releaseLocked(stg)
	}
	engine.session = nil
	return current.id
}

func (engine *Engine) stopResetLocked() {
	if engine.resetTimer != nil {
		engine.resetTimer.Stop()
		engine.resetTimer = nil
	}
}

func (engine *Engine) releaseLocked(stg *stage) {
	if stg.run == nil {
		return
	}
	stg.run.ticker.Stop()
	close(stg.run.stop)
	stg.run = nil
}

func (engine *Engine) setStateLocked(index int, state State, now time.Time) {
	stg := engine.session.stages[index]
	previous := stg.state
	stg.state = state
	stg.expected = false

	engine.logger.Debug("stage transition",
		zap.String("session", engine.session.id),
		zap.Int("stage", index),
		zap.String("from", string(previous)),
		zap.String("to", string(state)),
		zap.Duration("remaining", stg.remaining))
	engine.emitLocked(Event{
		Type:      EventStageChange,
		SessionID: engine.session.id,
		Stage:     index,
		State:     state,
		Remaining: stg.displayRemaining(now),
		At:        now,
	})
}

func (engine *Engine) watch(sessionID string, index int, run *stageRun) {
	for {
		select {
		case <-run.stop:
			return
		case <-run.ticker.Chan():
			if !engine.tick(sessionID, index, run) {
				return
			}
		}
	}
}

func (engine *Engine) tick(sessionID string, index int, run *stageRun) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	current := engine.session
	if current == nil || current.id != sessionID {
		return false
	}
	stg := current.stages[index]
	if stg.run != run {
		return false
	}

	now := engine.clock.Now()
	elapsed := elapsedSince(stg.runStartedAt, now)
	if elapsed >= stg.remaining {
		engine.completeLocked(index, now)
		return false
	}

	engine.emitLocked(Event{
		Type:      EventProgress,
		SessionID: sessionID,
		Stage:     index,
		State:     stg.state,
		Remaining: stg.remaining - elapsed,
		At:        now,
	})
	return true
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(event)
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (stg *stage) displayRemaining(now time.Time) time.Duration {
	if stg.state != StateRunning {
		return stg.remaining
	}
	remaining := stg.remaining - elapsedSince(stg.runStartedAt, now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (current *session) clearExpected() {
	for _, stg := range current.stages {
		stg.expected = false
	}
}

func (current *session) allDone() bool {
	if len(current.stages) == 0 {
		return false
	}
	for _, stg := range current.stages {
		if stg.state != StateDone {
			return false
		}
	}
	return true
}

// elapsedSince returns whole seconds between start and now, never negative.
func elapsedSince(start, now time.Time) time.Duration {
	elapsed := now.Sub(start).Truncate(time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func normalizeConfig(config model.EngineConfig) model.EngineConfig {
	defaults := model.DefaultEngineConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	config.TickInterval = model.ClampTickInterval(config.TickInterval)
	if config.ResetDelay <= 0 {
		config.ResetDelay = defaults.ResetDelay
	}
	return config
}
