package services

import (
	"fmt"
	"sync"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// Stage keys, emitted in progress events. Later events for the same key
// supersede earlier ones.
const (
	StageRead        = "read"
	StageFacts       = "facts"
	StageFactsWrite  = "facts_write"
	StageProfile     = "profile"
	StageLight       = "light"
	StageWater       = "water"
	StageTempHum     = "temperature_humidity"
	StageFertilizer  = "fertilizer"
	StagePruning     = "pruning"
	StageSoil        = "soil"
	StagePropagation = "propagation"
	StageCareWrite   = "care_write"
	StageVersion     = "version"
	StageDone        = "done"
)

// stageTracker wraps units of work with progress-event emission. It never
// blocks on a consumer and isolates consumer panics from control flow.
type stageTracker struct {
	mu     sync.Mutex
	emit   ports.ProgressFunc
	events map[string]entities.ProgressEvent
}

func newStageTracker(emit ports.ProgressFunc) *stageTracker {
	return &stageTracker{
		emit:   emit,
		events: make(map[string]entities.ProgressEvent),
	}
}

// run executes fn between a running event and a success/error event for key.
// Errors are annotated and re-thrown, never swallowed: the tracker is a
// reporter, not a handler.
func (t *stageTracker) run(key, label string, fn func() error) error {
	t.publish(entities.ProgressEvent{
		StageKey:  key,
		Label:     label,
		Status:    entities.StageRunning,
		StartedAt: timeNow().UTC(),
	})

	err := fn()

	t.finish(key, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", key, err)
	}
	return nil
}

// finish emits the terminal event for key, keeping the running event's label
// and start time.
func (t *stageTracker) finish(key string, err error) {
	t.mu.Lock()
	ev := t.events[key]
	t.mu.Unlock()

	ended := timeNow().UTC()
	ev.StageKey = key
	ev.EndedAt = &ended
	if err != nil {
		ev.Status = entities.StageError
		ev.Err = err.Error()
	} else {
		ev.Status = entities.StageSuccess
		ev.Err = ""
	}
	t.publish(ev)
}

// done emits the terminal pipeline event.
func (t *stageTracker) done() {
	now := timeNow().UTC()
	t.publish(entities.ProgressEvent{
		StageKey:  StageDone,
		Label:     "Done",
		Status:    entities.StageSuccess,
		StartedAt: now,
		EndedAt:   &now,
	})
}

func (t *stageTracker) publish(ev entities.ProgressEvent) {
	t.mu.Lock()
	t.events[ev.StageKey] = ev
	emit := t.emit
	t.mu.Unlock()

	if emit == nil {
		return
	}
	defer func() {
		// A broken consumer must not affect the pipeline.
		_ = recover()
	}()
	emit(ev)
}
