package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// completeRecord returns a record with every generatable field present.
func completeRecord() *entities.PlantRecord {
	return &entities.PlantRecord{
		ID:                   "plant-1",
		ScientificName:       "Monstera deliciosa",
		SuggestedDisplayName: "Swiss Cheese Plant",
		Description:          "A large-leafed climber.",
		Rarity:               "common",
		Availability:         "widely_available",
		Light:                "Provide plenty of bright, indirect light.",
		Water:                "Keep the soil evenly moist but never waterlogged.",
		TemperatureHumidity:  "Keep above 15C.",
		Fertilizer:           "Feed monthly in the growing season.",
		Pruning:              "Trim leggy stems in spring.",
		SoilDescription:      "A chunky aroid mix.",
		Propagation: []entities.PropagationTechnique{
			{Method: entities.PropagationStemCutting, Difficulty: entities.DifficultyEasy, Description: "Root a node in water."},
		},
		RulesetVersion: 5,
	}
}

func noForced(from, to int) entities.FieldSet {
	return entities.FieldSet{}
}

func TestEvaluate_CompleteRecordNeedsNothing(t *testing.T) {
	comp := Evaluate(completeRecord(), 5, noForced)

	assert.False(t, comp.NeedsAnyWork())
	assert.Empty(t, comp.Missing)
	assert.Empty(t, comp.Forced)
}

func TestEvaluate_Emptiness(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entities.PlantRecord)
		field  entities.FieldName
	}{
		{
			name:   "empty text field",
			mutate: func(r *entities.PlantRecord) { r.Description = "" },
			field:  entities.FieldDescription,
		},
		{
			name:   "whitespace-only text field",
			mutate: func(r *entities.PlantRecord) { r.Water = "   \n\t" },
			field:  entities.FieldWater,
		},
		{
			name:   "empty array field",
			mutate: func(r *entities.PlantRecord) { r.Propagation = nil },
			field:  entities.FieldPropagation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := completeRecord()
			tt.mutate(record)

			comp := Evaluate(record, 5, noForced)

			assert.True(t, comp.NeedsAnyWork())
			assert.True(t, comp.Missing.Has(tt.field))
			assert.Len(t, comp.Missing, 1)
		})
	}
}

func TestEvaluate_ForcedFields(t *testing.T) {
	record := completeRecord()
	record.RulesetVersion = 2

	forced := func(from, to int) entities.FieldSet {
		assert.Equal(t, 2, from)
		assert.Equal(t, 5, to)
		return entities.NewFieldSet(entities.FieldWater, entities.FieldPropagation)
	}

	comp := Evaluate(record, 5, forced)

	assert.True(t, comp.NeedsAnyWork())
	assert.Empty(t, comp.Missing)
	assert.True(t, comp.Forced.Has(entities.FieldWater))
	assert.True(t, comp.Forced.Has(entities.FieldPropagation))
	assert.True(t, comp.Needs(entities.FieldWater))
	assert.False(t, comp.Needs(entities.FieldLight))
}

func TestEvaluate_NilRecordAllMissing(t *testing.T) {
	comp := Evaluate(nil, 5, noForced)

	assert.True(t, comp.NeedsAnyWork())
	assert.Len(t, comp.Missing, len(entities.GeneratableFields()))
}

func TestEvaluate_NeedSetIsUnion(t *testing.T) {
	record := completeRecord()
	record.Description = ""

	forced := func(from, to int) entities.FieldSet {
		return entities.NewFieldSet(entities.FieldWater)
	}

	comp := Evaluate(record, 5, forced)
	need := comp.NeedSet()

	assert.Len(t, need, 2)
	assert.True(t, need.Has(entities.FieldDescription))
	assert.True(t, need.Has(entities.FieldWater))
}
