// Package entities contains core domain data structures.
package entities

import (
	"sort"
	"strings"
	"time"
)

// FieldName identifies one generatable (or metadata) column of a plant record.
type FieldName string

// Generatable fields. The pipeline only ever writes fields it generated itself.
const (
	FieldSuggestedDisplayName FieldName = "suggested_display_name"
	FieldDescription          FieldName = "description"
	FieldRarity               FieldName = "rarity"
	FieldAvailability         FieldName = "availability"
	FieldLight                FieldName = "light"
	FieldWater                FieldName = "water"
	FieldTemperatureHumidity  FieldName = "temperature_humidity"
	FieldFertilizer           FieldName = "fertilizer"
	FieldPruning              FieldName = "pruning"
	FieldSoilDescription      FieldName = "soil_description"
	FieldPropagation          FieldName = "propagation_techniques"
)

// Metadata fields, written only by the version-bump step. Not generatable.
const (
	FieldRulesetVersion FieldName = "ruleset_version"
	FieldGenerationMeta FieldName = "generation_meta"
)

// generatableFields is the fixed evaluation order for all generatable fields.
var generatableFields = []FieldName{
	FieldSuggestedDisplayName,
	FieldDescription,
	FieldRarity,
	FieldAvailability,
	FieldLight,
	FieldWater,
	FieldTemperatureHumidity,
	FieldFertilizer,
	FieldPruning,
	FieldSoilDescription,
	FieldPropagation,
}

var factFields = []FieldName{
	FieldSuggestedDisplayName,
	FieldDescription,
	FieldRarity,
	FieldAvailability,
}

var careFields = []FieldName{
	FieldLight,
	FieldWater,
	FieldTemperatureHumidity,
	FieldFertilizer,
	FieldPruning,
	FieldSoilDescription,
	FieldPropagation,
}

// GeneratableFields returns all generatable field names in evaluation order.
func GeneratableFields() []FieldName {
	out := make([]FieldName, len(generatableFields))
	copy(out, generatableFields)
	return out
}

// FactFields returns the fields produced by the facts stage.
func FactFields() []FieldName {
	out := make([]FieldName, len(factFields))
	copy(out, factFields)
	return out
}

// CareFields returns the fields produced by the care stage.
func CareFields() []FieldName {
	out := make([]FieldName, len(careFields))
	copy(out, careFields)
	return out
}

// IsFactField reports whether f belongs to the facts stage.
func IsFactField(f FieldName) bool {
	for _, ff := range factFields {
		if ff == f {
			return true
		}
	}
	return false
}

// FieldSet is a set of field names.
type FieldSet map[FieldName]struct{}

// NewFieldSet builds a set from the given names.
func NewFieldSet(names ...FieldName) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FieldSet) Has(f FieldName) bool {
	_, ok := s[f]
	return ok
}

// Add inserts a field into the set.
func (s FieldSet) Add(f FieldName) {
	s[f] = struct{}{}
}

// Union returns a new set containing members of both sets.
func (s FieldSet) Union(other FieldSet) FieldSet {
	out := make(FieldSet, len(s)+len(other))
	for f := range s {
		out[f] = struct{}{}
	}
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s FieldSet) Sorted() []FieldName {
	out := make([]FieldName, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PropagationMethod is the technique used to propagate a plant.
type PropagationMethod string

const (
	PropagationStemCutting  PropagationMethod = "stem_cutting"
	PropagationLeafCutting  PropagationMethod = "leaf_cutting"
	PropagationDivision     PropagationMethod = "division"
	PropagationOffsets      PropagationMethod = "offsets"
	PropagationAirLayering  PropagationMethod = "air_layering"
	PropagationSeed         PropagationMethod = "seed"
	PropagationWaterRooting PropagationMethod = "water_rooting"
)

// PropagationDifficulty rates how hard a technique is for a home grower.
type PropagationDifficulty string

const (
	DifficultyEasy     PropagationDifficulty = "easy"
	DifficultyModerate PropagationDifficulty = "moderate"
	DifficultyHard     PropagationDifficulty = "hard"
)

// PropagationTechnique is one entry of the ordered propagation list.
type PropagationTechnique struct {
	Method      PropagationMethod     `json:"method"`
	Difficulty  PropagationDifficulty `json:"difficulty"`
	Description string                `json:"description"`
}

// GenerationMeta records which model produced a run and when. Informational only.
type GenerationMeta struct {
	Model       string    `json:"model"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PlantRecord is the persisted subject of generation.
type PlantRecord struct {
	ID             string `json:"id"`
	ScientificName string `json:"scientific_name"`
	DisplayName    string `json:"display_name"`

	SuggestedDisplayName string                 `json:"suggested_display_name"`
	Description          string                 `json:"description"`
	Rarity               string                 `json:"rarity"`
	Availability         string                 `json:"availability"`
	Light                string                 `json:"light"`
	Water                string                 `json:"water"`
	TemperatureHumidity  string                 `json:"temperature_humidity"`
	Fertilizer           string                 `json:"fertilizer"`
	Pruning              string                 `json:"pruning"`
	SoilDescription      string                 `json:"soil_description"`
	Propagation          []PropagationTechnique `json:"propagation_techniques"`

	// RulesetVersion is bumped by the pipeline after a successful run.
	// Zero means the record has never been processed.
	RulesetVersion int             `json:"ruleset_version"`
	GenerationMeta *GenerationMeta `json:"generation_meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldPresent reports whether the field holds a non-empty trimmed value
// (arrays: non-empty). Forcing is evaluated separately by the completeness
// evaluator.
func (r *PlantRecord) FieldPresent(f FieldName) bool {
	if r == nil {
		return false
	}
	if f == FieldPropagation {
		return len(r.Propagation) > 0
	}
	v, ok := r.textField(f)
	if !ok {
		return false
	}
	return strings.TrimSpace(v) != ""
}

// TextField returns the string value of a text field.
func (r *PlantRecord) TextField(f FieldName) string {
	v, _ := r.textField(f)
	return v
}

func (r *PlantRecord) textField(f FieldName) (string, bool) {
	if r == nil {
		return "", false
	}
	switch f {
	case FieldSuggestedDisplayName:
		return r.SuggestedDisplayName, true
	case FieldDescription:
		return r.Description, true
	case FieldRarity:
		return r.Rarity, true
	case FieldAvailability:
		return r.Availability, true
	case FieldLight:
		return r.Light, true
	case FieldWater:
		return r.Water, true
	case FieldTemperatureHumidity:
		return r.TemperatureHumidity, true
	case FieldFertilizer:
		return r.Fertilizer, true
	case FieldPruning:
		return r.Pruning, true
	case FieldSoilDescription:
		return r.SoilDescription, true
	default:
		return "", false
	}
}
