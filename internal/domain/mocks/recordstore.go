package mocks

import (
	"context"
	"sync"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// RecordStore is a mock implementation of ports.RecordStore. It serves a
// single configured record and captures every update payload.
type RecordStore struct {
	mu sync.Mutex

	// Record is returned by ReadRecord (nil simulates a missing record).
	Record *entities.PlantRecord

	ReadErr   error
	UpdateErr error

	// Updates collects the payload of each UpdateRecord call in order.
	Updates []map[entities.FieldName]any
}

// ReadRecord returns the configured record or error.
func (m *RecordStore) ReadRecord(ctx context.Context, id string) (*entities.PlantRecord, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Record, nil
}

// UpdateRecord captures the payload and applies it to the configured record so
// later reads observe the write.
func (m *RecordStore) UpdateRecord(ctx context.Context, id string, fields map[entities.FieldName]any) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[entities.FieldName]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	m.Updates = append(m.Updates, copied)

	if m.Record != nil {
		applyFields(m.Record, copied)
	}
	return nil
}

// UpdateCount returns how many updates were captured.
func (m *RecordStore) UpdateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Updates)
}

func applyFields(r *entities.PlantRecord, fields map[entities.FieldName]any) {
	for f, v := range fields {
		switch f {
		case entities.FieldSuggestedDisplayName:
			r.SuggestedDisplayName, _ = v.(string)
		case entities.FieldDescription:
			r.Description, _ = v.(string)
		case entities.FieldRarity:
			r.Rarity, _ = v.(string)
		case entities.FieldAvailability:
			r.Availability, _ = v.(string)
		case entities.FieldLight:
			r.Light, _ = v.(string)
		case entities.FieldWater:
			r.Water, _ = v.(string)
		case entities.FieldTemperatureHumidity:
			r.TemperatureHumidity, _ = v.(string)
		case entities.FieldFertilizer:
			r.Fertilizer, _ = v.(string)
		case entities.FieldPruning:
			r.Pruning, _ = v.(string)
		case entities.FieldSoilDescription:
			r.SoilDescription, _ = v.(string)
		case entities.FieldPropagation:
			if techniques, ok := v.([]entities.PropagationTechnique); ok {
				r.Propagation = techniques
			}
		case entities.FieldRulesetVersion:
			if version, ok := v.(int); ok {
				r.RulesetVersion = version
			}
		case entities.FieldGenerationMeta:
			if meta, ok := v.(*entities.GenerationMeta); ok {
				r.GenerationMeta = meta
			}
		}
	}
}
