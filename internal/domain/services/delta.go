package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// DeltaWriter persists only the fields generated in the current run, never
// clobbering values that were already present.
type DeltaWriter struct {
	store ports.RecordStore
	model string
}

// NewDeltaWriter creates a delta writer. The model name is recorded in
// generation metadata on version bumps.
func NewDeltaWriter(store ports.RecordStore, model string) *DeltaWriter {
	return &DeltaWriter{
		store: store,
		model: model,
	}
}

// WriteDelta writes the candidate fields whose names appear in the need set.
// Fields outside the need set are dropped: they were already present and a
// human may have edited them between read and write. An empty payload is a
// no-op with no store call. Returns the fields actually written.
func (w *DeltaWriter) WriteDelta(ctx context.Context, id string, candidates map[entities.FieldName]any, need entities.FieldSet) ([]entities.FieldName, error) {
	payload := make(map[entities.FieldName]any, len(candidates))
	for f, v := range candidates {
		if need.Has(f) {
			payload[f] = v
		}
	}

	if len(payload) == 0 {
		return nil, nil
	}

	if err := w.store.UpdateRecord(ctx, id, payload); err != nil {
		return nil, fmt.Errorf("writing %d fields to %s: %w", len(payload), id, err)
	}

	written := make(entities.FieldSet, len(payload))
	for f := range payload {
		written.Add(f)
	}
	return written.Sorted(), nil
}

// BumpVersion stamps the target ruleset version and generation metadata as a
// separate write, so its failure never rolls back already-persisted content.
// A record already at or past the target is left untouched.
func (w *DeltaWriter) BumpVersion(ctx context.Context, id string, recordVersion, targetVersion int, runID string) error {
	if recordVersion >= targetVersion {
		return nil
	}

	meta := &entities.GenerationMeta{
		Model:       w.model,
		RunID:       runID,
		GeneratedAt: timeNow().UTC(),
	}

	err := w.store.UpdateRecord(ctx, id, map[entities.FieldName]any{
		entities.FieldRulesetVersion: targetVersion,
		entities.FieldGenerationMeta: meta,
	})
	if err != nil {
		return fmt.Errorf("bumping %s to version %d: %w", id, targetVersion, err)
	}
	return nil
}
