package handlers

import (
	"context"
	"fmt"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
	"github.com/mcnamara-charles/planter-core/internal/domain/services"
)

// StatusHandler reports the completeness of a plant record.
type StatusHandler struct {
	store         ports.RecordStore
	forcedSince   ports.ForcedFieldsFunc
	targetVersion int
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(store ports.RecordStore, forcedSince ports.ForcedFieldsFunc, targetVersion int) *StatusHandler {
	return &StatusHandler{
		store:         store,
		forcedSince:   forcedSince,
		targetVersion: targetVersion,
	}
}

// StatusResult describes what a fill run would produce.
type StatusResult struct {
	PlantID        string
	ScientificName string
	RulesetVersion int
	TargetVersion  int
	Missing        []entities.FieldName
	Forced         []entities.FieldName
	NeedsAnyWork   bool
}

// Handle evaluates the record's completeness without generating anything.
func (h *StatusHandler) Handle(ctx context.Context, plantID string) (*StatusResult, error) {
	record, err := h.store.ReadRecord(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("reading plant %s: %w", plantID, err)
	}
	if record == nil {
		return nil, fmt.Errorf("plant %s does not exist", plantID)
	}

	comp := services.Evaluate(record, h.targetVersion, h.forcedSince)

	return &StatusResult{
		PlantID:        record.ID,
		ScientificName: record.ScientificName,
		RulesetVersion: record.RulesetVersion,
		TargetVersion:  h.targetVersion,
		Missing:        comp.Missing.Sorted(),
		Forced:         comp.Forced.Sorted(),
		NeedsAnyWork:   comp.NeedsAnyWork(),
	}, nil
}
