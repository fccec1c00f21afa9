package entities

// Schema describes the expected shape of one generated fragment: its name,
// the JSON-schema definition sent to the generation backend, and the top-level
// keys a structurally valid result must carry. Pure data.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
	Required    []string
}

// Schema names for every generated fragment.
const (
	SchemaFacts       = "plant_facts"
	SchemaDisplayName = "display_name"
	SchemaProfile     = "care_profile"
	SchemaTempHum     = "temperature_humidity"
	SchemaFertilizer  = "fertilizer"
	SchemaPruning     = "pruning"
	SchemaSoil        = "soil_description"
	SchemaPropagation = "propagation_techniques"
)

// Rarity and availability vocabularies used by the facts schema.
var (
	RarityLevels       = []string{"common", "uncommon", "rare", "very_rare"}
	AvailabilityLevels = []string{"widely_available", "seasonal", "specialty", "collector"}
)

func textSchema(name, description, hint string) Schema {
	return Schema{
		Name:        name,
		Description: description,
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "description": hint},
			},
			"required": []string{"text"},
		},
		Required: []string{"text"},
	}
}

func enumStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

var schemaRegistry = map[string]Schema{
	SchemaFacts: {
		Name:        SchemaFacts,
		Description: "Joint description, rarity and availability judgement",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"description":  map[string]any{"type": "string", "description": "Two to four sentences describing the plant"},
				"rarity":       map[string]any{"type": "string", "enum": RarityLevels},
				"availability": map[string]any{"type": "string", "enum": AvailabilityLevels},
			},
			"required": []string{"description", "rarity", "availability"},
		},
		Required: []string{"description", "rarity", "availability"},
	},
	SchemaDisplayName: {
		Name:        SchemaDisplayName,
		Description: "Suggested common display name",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"display_name": map[string]any{"type": "string", "description": "The most recognisable English common name"},
			},
			"required": []string{"display_name"},
		},
		Required: []string{"display_name"},
	},
	SchemaProfile: {
		Name:        SchemaProfile,
		Description: "Categorical care profile",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"growth_form":       map[string]any{"type": "string", "enum": enumStrings([]GrowthForm{GrowthFoliage, GrowthSucculent, GrowthVining, GrowthFlowering, GrowthTree})},
				"light_class":       map[string]any{"type": "string", "enum": enumStrings([]LightClass{LightBrightDirect, LightBrightIndirect, LightMedium, LightLow})},
				"watering_strategy": map[string]any{"type": "string", "enum": enumStrings([]WateringStrategy{WaterDrenchAndDry, WaterEvenlyMoist, WaterModerate, WaterDroughtTolerant})},
				"preferred_orientation": map[string]any{
					"type": "string", "enum": enumStrings(OrientationPriority),
				},
				"alternate_orientations": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": enumStrings(OrientationPriority)},
				},
				"seasonal_note": map[string]any{"type": "string", "description": "One short seasonal caveat, or empty"},
			},
			"required": []string{"growth_form", "light_class", "watering_strategy", "preferred_orientation", "alternate_orientations"},
		},
		Required: []string{"growth_form", "light_class", "watering_strategy", "preferred_orientation"},
	},
	SchemaPropagation: {
		Name:        SchemaPropagation,
		Description: "Ordered propagation techniques",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"techniques": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]any{
							"method":      map[string]any{"type": "string", "enum": enumStrings([]PropagationMethod{PropagationStemCutting, PropagationLeafCutting, PropagationDivision, PropagationOffsets, PropagationAirLayering, PropagationSeed, PropagationWaterRooting})},
							"difficulty":  map[string]any{"type": "string", "enum": enumStrings([]PropagationDifficulty{DifficultyEasy, DifficultyModerate, DifficultyHard})},
							"description": map[string]any{"type": "string"},
						},
						"required": []string{"method", "difficulty", "description"},
					},
				},
			},
			"required": []string{"techniques"},
		},
		Required: []string{"techniques"},
	},
	SchemaTempHum:    textSchema(SchemaTempHum, "Temperature and humidity guidance", "One or two sentences on temperature range and humidity"),
	SchemaFertilizer: textSchema(SchemaFertilizer, "Fertilizer guidance", "One or two sentences on feeding schedule and strength"),
	SchemaPruning:    textSchema(SchemaPruning, "Pruning guidance", "One or two sentences on when and how to prune"),
	SchemaSoil:       textSchema(SchemaSoil, "Soil guidance", "One or two sentences on the ideal potting mix"),
}

// SchemaByName looks up a registered fragment schema.
func SchemaByName(name string) (Schema, bool) {
	s, ok := schemaRegistry[name]
	return s, ok
}
