// Package handlers exposes application-level operations to the CLI.
package handlers

import (
	"context"
	"fmt"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
	"github.com/mcnamara-charles/planter-core/internal/domain/services"
)

// FillHandler runs the generation pipeline for a plant.
type FillHandler struct {
	pipeline *services.Pipeline
}

// NewFillHandler creates a new fill handler.
func NewFillHandler(pipeline *services.Pipeline) *FillHandler {
	return &FillHandler{
		pipeline: pipeline,
	}
}

// FillOptions controls one fill run.
type FillOptions struct {
	// DisplayHint steers generation toward a known common name.
	DisplayHint string
	// Progress receives stage events for UI feedback. May be nil.
	Progress ports.ProgressFunc
}

// FillResult contains the outcome of a fill run.
type FillResult struct {
	PlantID        string
	RunID          string
	Written        []entities.FieldName
	RulesetVersion int
	Skipped        bool
}

// Handle fills the missing and forced fields of the plant record.
func (h *FillHandler) Handle(ctx context.Context, plantID string, opts FillOptions) (*FillResult, error) {
	result, err := h.pipeline.Fill(ctx, plantID, services.FillOptions{
		DisplayHint: opts.DisplayHint,
		Progress:    opts.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("filling plant %s: %w", plantID, err)
	}

	return &FillResult{
		PlantID:        result.PlantID,
		RunID:          result.RunID,
		Written:        result.Written,
		RulesetVersion: result.RulesetVersion,
		Skipped:        result.Skipped,
	}, nil
}
