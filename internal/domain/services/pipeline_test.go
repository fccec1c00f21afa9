package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/mocks"
)

// allResults configures a mock result for every generation schema.
func allResults(t *testing.T) map[string]json.RawMessage {
	t.Helper()
	return map[string]json.RawMessage{
		entities.SchemaDisplayName: json.RawMessage(`{"display_name":"Swiss Cheese Plant"}`),
		entities.SchemaFacts:       json.RawMessage(`{"description":"A large-leafed climber.","rarity":"common","availability":"widely_available"}`),
		entities.SchemaProfile: profileJSON(t, rawProfile{
			GrowthForm:            "vining",
			LightClass:            "bright_indirect",
			WateringStrategy:      "keep_evenly_moist",
			PreferredOrientation:  "east",
			AlternateOrientations: []string{"south", "west"},
		}),
		entities.SchemaTempHum:     json.RawMessage(`{"text":"Keep above 15C with moderate humidity."}`),
		entities.SchemaFertilizer:  json.RawMessage(`{"text":"Feed monthly in the growing season."}`),
		entities.SchemaPruning:     json.RawMessage(`{"text":"Trim leggy stems in spring."}`),
		entities.SchemaSoil:        json.RawMessage(`{"text":"A chunky aroid mix drains well."}`),
		entities.SchemaPropagation: json.RawMessage(`{"techniques":[{"method":"stem_cutting","difficulty":"easy","description":"Root a node in water."}]}`),
	}
}

func newTestPipeline(t *testing.T, store *mocks.RecordStore, llm *mocks.StructuredClient) *Pipeline {
	t.Helper()
	profiles := NewProfileService(llm, nil)
	writer := NewDeltaWriter(store, "gpt-4o-mini")
	p, err := NewPipeline(PipelineConfig{
		Store:         store,
		LLM:           llm,
		Profiles:      profiles,
		Writer:        writer,
		ForcedSince:   noForced,
		TargetVersion: 5,
	})
	require.NoError(t, err)
	return p
}

// eventRecorder collects progress events; the callback runs from concurrent
// stage goroutines.
type eventRecorder struct {
	mu     sync.Mutex
	events []entities.ProgressEvent
}

func (r *eventRecorder) record(ev entities.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// indexOf returns the position of the first event matching key and status, or -1.
func (r *eventRecorder) indexOf(key string, status entities.StageStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ev := range r.events {
		if ev.StageKey == key && ev.Status == status {
			return i
		}
	}
	return -1
}

func TestFill_EmptyRecordGeneratesEverything(t *testing.T) {
	store := &mocks.RecordStore{Record: &entities.PlantRecord{
		ID:             "plant-1",
		ScientificName: "Monstera deliciosa",
	}}
	llm := &mocks.StructuredClient{Results: allResults(t)}
	p := newTestPipeline(t, store, llm)

	result, err := p.Fill(context.Background(), "plant-1", FillOptions{})
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 5, result.RulesetVersion)
	assert.ElementsMatch(t, entities.GeneratableFields(), result.Written)

	// facts write, care write, version stamp
	require.Equal(t, 3, store.UpdateCount())

	assert.Equal(t, "Swiss Cheese Plant", store.Record.SuggestedDisplayName)
	assert.Equal(t, "common", store.Record.Rarity)
	assert.Equal(t, "Provide plenty of bright, indirect light, ideally near an east-facing window; a south- or west-facing spot also works.", store.Record.Light)
	assert.Equal(t, "Keep the soil evenly moist but never waterlogged.", store.Record.Water)
	require.Len(t, store.Record.Propagation, 1)
	assert.Equal(t, entities.PropagationStemCutting, store.Record.Propagation[0].Method)
	assert.Equal(t, 5, store.Record.RulesetVersion)
	require.NotNil(t, store.Record.GenerationMeta)
	assert.Equal(t, "gpt-4o-mini", store.Record.GenerationMeta.Model)
	assert.Equal(t, result.RunID, store.Record.GenerationMeta.RunID)
}

func TestFill_CompleteRecordSkipsEverything(t *testing.T) {
	record := completeRecord()
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{}
	p := newTestPipeline(t, store, llm)

	rec := &eventRecorder{}
	result, err := p.Fill(context.Background(), record.ID, FillOptions{Progress: rec.record})
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Empty(t, result.Written)
	assert.Equal(t, 5, result.RulesetVersion)
	assert.Zero(t, llm.CallCount(""))
	assert.Zero(t, store.UpdateCount())

	// Only the read stage and the terminal event fire.
	assert.GreaterOrEqual(t, rec.indexOf(StageRead, entities.StageSuccess), 0)
	assert.GreaterOrEqual(t, rec.indexOf(StageDone, entities.StageSuccess), 0)
	assert.Equal(t, -1, rec.indexOf(StageFacts, entities.StageRunning))
}

func TestFill_MissingRecord(t *testing.T) {
	store := &mocks.RecordStore{Record: nil}
	llm := &mocks.StructuredClient{}
	p := newTestPipeline(t, store, llm)

	_, err := p.Fill(context.Background(), "ghost", FillOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestFill_StageOrdering(t *testing.T) {
	record := completeRecord()
	record.Light = ""
	record.Water = ""
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{Results: allResults(t)}
	p := newTestPipeline(t, store, llm)

	rec := &eventRecorder{}
	result, err := p.Fill(context.Background(), record.ID, FillOptions{Progress: rec.record})
	require.NoError(t, err)

	assert.ElementsMatch(t, []entities.FieldName{entities.FieldLight, entities.FieldWater}, result.Written)

	read := rec.indexOf(StageRead, entities.StageSuccess)
	profileRunning := rec.indexOf(StageProfile, entities.StageRunning)
	profileDone := rec.indexOf(StageProfile, entities.StageSuccess)
	lightRunning := rec.indexOf(StageLight, entities.StageRunning)
	lightDone := rec.indexOf(StageLight, entities.StageSuccess)
	waterRunning := rec.indexOf(StageWater, entities.StageRunning)
	careWrite := rec.indexOf(StageCareWrite, entities.StageSuccess)
	done := rec.indexOf(StageDone, entities.StageSuccess)

	require.NotEqual(t, -1, read)
	require.NotEqual(t, -1, profileDone)
	require.NotEqual(t, -1, careWrite)
	assert.Less(t, read, profileRunning)
	assert.Less(t, profileDone, lightRunning)
	assert.Less(t, lightDone, waterRunning)
	assert.Less(t, waterRunning, careWrite)
	assert.Less(t, careWrite, done)

	// A display-name suggestion is generated opportunistically, but since the
	// field was already present nothing from the facts stage is written.
	assert.Equal(t, 1, llm.CallCount(entities.SchemaDisplayName))
	assert.Equal(t, -1, rec.indexOf(StageFactsWrite, entities.StageRunning))
}

func TestFill_ProfileFailureSkipsLightAndWater(t *testing.T) {
	record := completeRecord()
	record.Light = ""
	record.Water = ""
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{
		Results: allResults(t),
		Errs:    map[string]error{entities.SchemaProfile: errors.New("model unavailable")},
	}
	p := newTestPipeline(t, store, llm)

	result, err := p.Fill(context.Background(), record.ID, FillOptions{})
	require.NoError(t, err)

	// The run completes without the dependent fields; they stay missing for a
	// later run to pick up, and no version stamp happens.
	assert.Empty(t, result.Written)
	assert.Zero(t, store.UpdateCount())
	assert.Empty(t, store.Record.Light)
	assert.Empty(t, store.Record.Water)
	assert.Equal(t, 5, store.Record.RulesetVersion)
}

func TestFill_CareFieldFailurePropagatesAfterJoin(t *testing.T) {
	record := completeRecord()
	record.TemperatureHumidity = ""
	record.Fertilizer = ""
	record.Pruning = ""
	record.SoilDescription = ""
	record.Propagation = nil
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{
		Results: allResults(t),
		Errs:    map[string]error{entities.SchemaSoil: errors.New("model unavailable")},
	}
	p := newTestPipeline(t, store, llm)

	_, err := p.Fill(context.Background(), record.ID, FillOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soil stage")

	// Every independent member still settled before the error surfaced.
	assert.Equal(t, 1, llm.CallCount(entities.SchemaTempHum))
	assert.Equal(t, 1, llm.CallCount(entities.SchemaFertilizer))
	assert.Equal(t, 1, llm.CallCount(entities.SchemaPruning))
	assert.Equal(t, 1, llm.CallCount(entities.SchemaPropagation))

	// Nothing was persisted and no version stamp happened.
	assert.Zero(t, store.UpdateCount())
}

func TestFill_WaterContradictionRepaired(t *testing.T) {
	record := completeRecord()
	record.Light = ""
	record.Water = ""
	results := allResults(t)
	results[entities.SchemaProfile] = profileJSON(t, rawProfile{
		GrowthForm:           "foliage",
		LightClass:           "bright_direct",
		WateringStrategy:     "moderate",
		PreferredOrientation: "south",
		SeasonalNote:         "In winter let the soil dry out completely between waterings",
	})
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{Results: results}
	p := newTestPipeline(t, store, llm)

	_, err := p.Fill(context.Background(), record.ID, FillOptions{})
	require.NoError(t, err)

	// The moderate-watering sentence contradicts the dry-out guidance carried
	// by the rendered light text, so it is rewritten.
	assert.NotContains(t, store.Record.Water, "moderate watering")
	assert.Contains(t, store.Record.Water, "Water deeply, then allow the soil to dry out completely")
}

func TestFill_HardRulePinsRenderedCare(t *testing.T) {
	store := &mocks.RecordStore{Record: &entities.PlantRecord{
		ID:             "plant-1",
		ScientificName: "Sansevieria trifasciata 'Laurentii'",
	}}
	results := allResults(t)
	// The classifier disagrees with the rule on every pinned attribute.
	results[entities.SchemaProfile] = profileJSON(t, rawProfile{
		GrowthForm:           "foliage",
		LightClass:           "low",
		WateringStrategy:     "keep_evenly_moist",
		PreferredOrientation: "north",
	})
	llm := &mocks.StructuredClient{Results: results}

	profiles := NewProfileService(llm, map[string]HardRule{
		"sansevieria trifasciata": {
			GrowthForm:            entities.GrowthSucculent,
			LightClass:            entities.LightBrightIndirect,
			WateringStrategy:      entities.WaterDrenchAndDry,
			PreferredOrientation:  entities.OrientationSouth,
			AlternateOrientations: []entities.Orientation{entities.OrientationWest},
		},
	})
	p, err := NewPipeline(PipelineConfig{
		Store:         store,
		LLM:           llm,
		Profiles:      profiles,
		Writer:        NewDeltaWriter(store, "gpt-4o-mini"),
		ForcedSince:   noForced,
		TargetVersion: 5,
	})
	require.NoError(t, err)

	result, err := p.Fill(context.Background(), "plant-1", FillOptions{})
	require.NoError(t, err)

	// The rule, not the classification, decides the rendered care fields.
	assert.Equal(t, "Provide plenty of bright, indirect light, ideally near a south-facing window; a west-facing spot also works.", store.Record.Light)
	assert.Equal(t, "Water deeply, then allow the soil to dry out completely before watering again. Reduce frequency further in winter.", store.Record.Water)
	assert.Equal(t, 5, result.RulesetVersion)
	assert.Equal(t, 5, store.Record.RulesetVersion)
	assert.Equal(t, 1, llm.CallCount(entities.SchemaProfile))
}

func TestFill_DisplayHintSteersGeneration(t *testing.T) {
	record := completeRecord()
	record.Description = ""
	store := &mocks.RecordStore{Record: record}
	llm := &mocks.StructuredClient{Results: allResults(t)}
	p := newTestPipeline(t, store, llm)

	_, err := p.Fill(context.Background(), record.ID, FillOptions{DisplayHint: "Hurricane Plant"})
	require.NoError(t, err)

	require.NotZero(t, llm.CallCount(entities.SchemaFacts))
	for _, call := range llm.Calls {
		if call.Schema == entities.SchemaFacts {
			assert.Contains(t, call.Input, "Hurricane Plant")
		}
	}
}

func TestNewPipeline_MissingCollaborators(t *testing.T) {
	_, err := NewPipeline(PipelineConfig{})
	assert.Error(t, err)
}
