package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Store         ports.RecordStore
	LLM           ports.StructuredClient
	Profiles      *ProfileService
	Writer        *DeltaWriter
	ForcedSince   ports.ForcedFieldsFunc
	TargetVersion int
	Log           ports.Logger
}

// Pipeline orchestrates one generation run: it decides what still needs to be
// produced, sequences dependent and independent generation work, and writes
// back only the fields that were actually generated.
type Pipeline struct {
	store       ports.RecordStore
	llm         ports.StructuredClient
	profiles    *ProfileService
	writer      *DeltaWriter
	forcedSince ports.ForcedFieldsFunc
	target      int
	log         ports.Logger
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Store == nil || cfg.LLM == nil || cfg.Profiles == nil || cfg.Writer == nil {
		return nil, errors.New("pipeline is missing collaborators")
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	return &Pipeline{
		store:       cfg.Store,
		llm:         cfg.LLM,
		profiles:    cfg.Profiles,
		writer:      cfg.Writer,
		forcedSince: cfg.ForcedSince,
		target:      cfg.TargetVersion,
		log:         log,
	}, nil
}

// FillOptions carries optional caller inputs for one run.
type FillOptions struct {
	// DisplayHint is an optional display name used to steer generation when
	// the record has none.
	DisplayHint string
	// Progress receives stage events. May be nil.
	Progress ports.ProgressFunc
}

// FillResult summarises one completed run.
type FillResult struct {
	PlantID        string
	RunID          string
	Written        []entities.FieldName
	RulesetVersion int
	// Skipped is true when every field was already present and nothing ran.
	Skipped bool
}

// Fill runs the generation pipeline for one plant id.
//
// Ordering within a run: read strictly precedes all generation; the profile
// (when needed) strictly precedes light, which strictly precedes water; all
// other care fields are mutually unordered; each write-back strictly follows
// the stage it persists. Two concurrent runs for the same id are not
// serialised here; callers that care must serialise per id.
func (p *Pipeline) Fill(ctx context.Context, id string, opts FillOptions) (*FillResult, error) {
	tracker := newStageTracker(opts.Progress)
	result := &FillResult{
		PlantID: id,
		RunID:   uuid.New().String(),
	}

	var record *entities.PlantRecord
	err := tracker.run(StageRead, "Reading record", func() error {
		rec, err := p.store.ReadRecord(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("plant %s does not exist", id)
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	comp := Evaluate(record, p.target, p.forcedSince)
	if !comp.NeedsAnyWork() {
		p.log.Debug("record complete, nothing to do", "plant_id", id)
		result.Skipped = true
		result.RulesetVersion = record.RulesetVersion
		tracker.done()
		return result, nil
	}

	displayHint := opts.DisplayHint
	if displayHint == "" {
		displayHint = record.DisplayName
	}
	input := plantInput(record.ScientificName, displayHint)

	factsWritten, err := p.runFacts(ctx, tracker, record, comp, input)
	if err != nil {
		return nil, err
	}

	careWritten, err := p.runCare(ctx, tracker, record, comp, displayHint, input)
	if err != nil {
		return nil, err
	}

	written := make(entities.FieldSet)
	for _, f := range factsWritten {
		written.Add(f)
	}
	for _, f := range careWritten {
		written.Add(f)
	}
	result.Written = written.Sorted()
	result.RulesetVersion = record.RulesetVersion

	if len(result.Written) > 0 && record.RulesetVersion < p.target {
		err := tracker.run(StageVersion, "Stamping ruleset version", func() error {
			return p.writer.BumpVersion(ctx, id, record.RulesetVersion, p.target, result.RunID)
		})
		if err != nil {
			return nil, err
		}
		result.RulesetVersion = p.target
	}

	p.log.Info("run finished", "plant_id", id, "written", len(result.Written), "version", result.RulesetVersion)
	tracker.done()
	return result, nil
}

// runFacts runs the facts stage and its write-back. A display-name suggestion
// is always generated; description, rarity and availability go through one
// combined call, only when any of them needs work, because the model judges
// them jointly for consistency. Generation failures here fall back to the
// stored values.
func (p *Pipeline) runFacts(ctx context.Context, tracker *stageTracker, record *entities.PlantRecord, comp Completeness, input string) ([]entities.FieldName, error) {
	candidates := make(map[entities.FieldName]any)
	var mu sync.Mutex

	err := tracker.run(StageFacts, "Gathering facts", func() error {
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := p.generateDisplayName(ctx, input)
			if err != nil {
				p.log.Warn("display name generation failed, keeping stored value", "plant_id", record.ID, "error", err)
				return
			}
			mu.Lock()
			candidates[entities.FieldSuggestedDisplayName] = name
			mu.Unlock()
		}()

		if comp.NeedsAnyOf(entities.FieldDescription, entities.FieldRarity, entities.FieldAvailability) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				facts, err := p.generateFacts(ctx, input)
				if err != nil {
					p.log.Warn("facts generation failed, keeping stored values", "plant_id", record.ID, "error", err)
					return
				}
				mu.Lock()
				candidates[entities.FieldDescription] = facts.Description
				candidates[entities.FieldRarity] = facts.Rarity
				candidates[entities.FieldAvailability] = facts.Availability
				mu.Unlock()
			}()
		}

		wg.Wait()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !wouldWrite(candidates, comp) {
		return nil, nil
	}

	var written []entities.FieldName
	err = tracker.run(StageFactsWrite, "Saving facts", func() error {
		var err error
		written, err = p.writer.WriteDelta(ctx, record.ID, candidates, comp.NeedSet())
		return err
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// careMember is one unit of the care fan-out.
type careMember struct {
	key      string
	label    string
	fn       func() error
	fallback bool
}

// runCare runs the care fan-out, the dependent light/water renders and the
// care write-back.
func (p *Pipeline) runCare(ctx context.Context, tracker *stageTracker, record *entities.PlantRecord, comp Completeness, displayHint, input string) ([]entities.FieldName, error) {
	candidates := make(map[entities.FieldName]any)
	var mu sync.Mutex
	setCandidate := func(f entities.FieldName, v any) {
		mu.Lock()
		candidates[f] = v
		mu.Unlock()
	}

	var profile *entities.Profile
	profileNeeded := comp.NeedsAnyOf(entities.FieldLight, entities.FieldWater)

	var members []careMember
	if profileNeeded {
		members = append(members, careMember{
			key:   StageProfile,
			label: "Classifying care profile",
			fn: func() error {
				prof, err := p.profiles.Classify(ctx, record.ScientificName, displayHint)
				if err != nil {
					return err
				}
				mu.Lock()
				profile = prof
				mu.Unlock()
				return nil
			},
			fallback: true,
		})
	}
	members = append(members, p.textMembers(ctx, comp, input, setCandidate)...)
	if comp.Needs(entities.FieldPropagation) {
		members = append(members, careMember{
			key:   StagePropagation,
			label: "Listing propagation techniques",
			fn: func() error {
				techniques, err := p.generatePropagation(ctx, input)
				if err != nil {
					return err
				}
				setCandidate(entities.FieldPropagation, techniques)
				return nil
			},
		})
	}

	// Fan-out: every member settles before the join completes; only then does
	// a non-fallback error propagate.
	var g errgroup.Group
	for _, m := range members {
		m := m
		g.Go(func() error {
			err := tracker.run(m.key, m.label, m.fn)
			if err == nil {
				return nil
			}
			if m.fallback {
				p.log.Warn("care member failed, dependents will be skipped", "stage", m.key, "plant_id", record.ID, "error", err)
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Light depends on the profile; water depends on the profile and on the
	// freshly rendered light text.
	lightText := record.Light
	if comp.Needs(entities.FieldLight) {
		if profile == nil {
			p.log.Warn("no profile, leaving light unrendered", "plant_id", record.ID)
		} else {
			err := tracker.run(StageLight, "Rendering light guidance", func() error {
				text, err := RenderLight(profile)
				if err != nil {
					return err
				}
				candidates[entities.FieldLight] = text
				lightText = text
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if comp.Needs(entities.FieldWater) {
		if profile == nil {
			p.log.Warn("no profile, leaving water unrendered", "plant_id", record.ID)
		} else {
			err := tracker.run(StageWater, "Rendering watering guidance", func() error {
				text, err := RenderWater(profile)
				if err != nil {
					return err
				}
				candidates[entities.FieldWater] = RepairWaterText(lightText, text)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if !wouldWrite(candidates, comp) {
		return nil, nil
	}

	var written []entities.FieldName
	err := tracker.run(StageCareWrite, "Saving care guidance", func() error {
		var err error
		written, err = p.writer.WriteDelta(ctx, record.ID, candidates, comp.NeedSet())
		return err
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// textMembers builds the independent free-text care members that need work.
func (p *Pipeline) textMembers(ctx context.Context, comp Completeness, input string, setCandidate func(entities.FieldName, any)) []careMember {
	type textField struct {
		field        entities.FieldName
		key          string
		label        string
		schema       string
		instructions string
	}
	fields := []textField{
		{entities.FieldTemperatureHumidity, StageTempHum, "Describing temperature and humidity", entities.SchemaTempHum, tempHumInstructions},
		{entities.FieldFertilizer, StageFertilizer, "Describing fertilizing", entities.SchemaFertilizer, fertilizerInstructions},
		{entities.FieldPruning, StagePruning, "Describing pruning", entities.SchemaPruning, pruningInstructions},
		{entities.FieldSoilDescription, StageSoil, "Describing soil", entities.SchemaSoil, soilInstructions},
	}

	var members []careMember
	for _, tf := range fields {
		if !comp.Needs(tf.field) {
			continue
		}
		tf := tf
		members = append(members, careMember{
			key:   tf.key,
			label: tf.label,
			fn: func() error {
				text, err := p.generateText(ctx, tf.schema, tf.instructions, input)
				if err != nil {
					return err
				}
				setCandidate(tf.field, text)
				return nil
			},
		})
	}
	return members
}

// wouldWrite reports whether any candidate intersects the need set.
func wouldWrite(candidates map[entities.FieldName]any, comp Completeness) bool {
	for f := range candidates {
		if comp.Needs(f) {
			return true
		}
	}
	return false
}

type factsResult struct {
	Description  string `json:"description"`
	Rarity       string `json:"rarity"`
	Availability string `json:"availability"`
}

func (p *Pipeline) generateFacts(ctx context.Context, input string) (*factsResult, error) {
	raw, err := p.generate(ctx, entities.SchemaFacts, factsInstructions, input)
	if err != nil {
		return nil, err
	}
	var facts factsResult
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil, fmt.Errorf("parsing facts JSON: %w", err)
	}
	if strings.TrimSpace(facts.Description) == "" {
		return nil, errors.New("facts result has an empty description")
	}
	return &facts, nil
}

func (p *Pipeline) generateDisplayName(ctx context.Context, input string) (string, error) {
	raw, err := p.generate(ctx, entities.SchemaDisplayName, displayNameInstructions, input)
	if err != nil {
		return "", err
	}
	var out struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parsing display name JSON: %w", err)
	}
	name := strings.TrimSpace(out.DisplayName)
	if name == "" {
		return "", errors.New("display name result is empty")
	}
	return name, nil
}

func (p *Pipeline) generateText(ctx context.Context, schemaName, instructions, input string) (string, error) {
	raw, err := p.generate(ctx, schemaName, instructions, input)
	if err != nil {
		return "", err
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parsing %s JSON: %w", schemaName, err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", fmt.Errorf("%s result is empty", schemaName)
	}
	return text, nil
}

func (p *Pipeline) generatePropagation(ctx context.Context, input string) ([]entities.PropagationTechnique, error) {
	raw, err := p.generate(ctx, entities.SchemaPropagation, propagationInstructions, input)
	if err != nil {
		return nil, err
	}
	var out struct {
		Techniques []entities.PropagationTechnique `json:"techniques"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parsing propagation JSON: %w", err)
	}
	if len(out.Techniques) == 0 {
		return nil, errors.New("propagation result has no techniques")
	}
	return out.Techniques, nil
}

func (p *Pipeline) generate(ctx context.Context, schemaName, instructions, input string) (json.RawMessage, error) {
	schema, ok := entities.SchemaByName(schemaName)
	if !ok {
		return nil, fmt.Errorf("schema %s is not registered", schemaName)
	}
	return p.llm.Generate(ctx, schema, instructions, input)
}

// nopLogger is the default logger when none is configured.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
