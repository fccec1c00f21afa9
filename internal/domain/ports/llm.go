// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"encoding/json"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// StructuredClient obtains a schema-conforming value from a generation
// backend. Implementations hide response-shape variance and escalate across
// tiers; they perform no caching and no field-specific logic.
type StructuredClient interface {
	// Generate sends the instruction+input pair and returns the first
	// structurally valid value conforming to the schema, or an error once
	// every tier is exhausted.
	Generate(ctx context.Context, schema entities.Schema, instructions, input string) (json.RawMessage, error)
}
