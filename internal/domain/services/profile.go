package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// HardRule is a partial care profile pinned to a canonical scientific name.
// Zero values leave the classified value in place, so a rule can pin a few
// attributes while the classifier fills the rest.
type HardRule struct {
	GrowthForm            entities.GrowthForm
	LightClass            entities.LightClass
	WateringStrategy      entities.WateringStrategy
	PreferredOrientation  entities.Orientation
	AlternateOrientations []entities.Orientation
	SeasonalNote          string
}

// ProfileService classifies a plant into a categorical care profile and
// deterministically renders the light and water fields from it.
type ProfileService struct {
	llm   ports.StructuredClient
	rules map[string]HardRule
}

// NewProfileService creates a new profile service. Rules are keyed by
// canonical binomial (see CanonicalBinomial).
func NewProfileService(llm ports.StructuredClient, rules map[string]HardRule) *ProfileService {
	return &ProfileService{
		llm:   llm,
		rules: rules,
	}
}

// rawProfile is the JSON structure returned by the classification call.
type rawProfile struct {
	GrowthForm            string   `json:"growth_form"`
	LightClass            string   `json:"light_class"`
	WateringStrategy      string   `json:"watering_strategy"`
	PreferredOrientation  string   `json:"preferred_orientation"`
	AlternateOrientations []string `json:"alternate_orientations"`
	SeasonalNote          string   `json:"seasonal_note"`
}

// Classify produces a care profile for the plant. The classification call
// always runs; a hard rule for the plant's canonical scientific identity
// overrides the classified value key by key, so known species stay
// deterministic while novel attributes are still filled generically.
func (s *ProfileService) Classify(ctx context.Context, scientificName, displayName string) (*entities.Profile, error) {
	schema, ok := entities.SchemaByName(entities.SchemaProfile)
	if !ok {
		return nil, fmt.Errorf("schema %s is not registered", entities.SchemaProfile)
	}

	raw, err := s.llm.Generate(ctx, schema, profileInstructions, plantInput(scientificName, displayName))
	if err != nil {
		return nil, fmt.Errorf("classifying profile: %w", err)
	}

	var rp rawProfile
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("parsing profile JSON: %w", err)
	}

	profile := &entities.Profile{
		GrowthForm:           entities.GrowthForm(rp.GrowthForm),
		LightClass:           entities.LightClass(rp.LightClass),
		WateringStrategy:     entities.WateringStrategy(rp.WateringStrategy),
		PreferredOrientation: entities.Orientation(rp.PreferredOrientation),
		SeasonalNote:         strings.TrimSpace(rp.SeasonalNote),
	}
	for _, o := range rp.AlternateOrientations {
		profile.AlternateOrientations = append(profile.AlternateOrientations, entities.Orientation(o))
	}

	if rule, ok := s.rules[CanonicalBinomial(scientificName)]; ok {
		applyHardRule(profile, rule)
	}

	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	SanitizeProfile(profile)
	return profile, nil
}

// applyHardRule overrides classified values with the rule's non-zero fields.
func applyHardRule(p *entities.Profile, rule HardRule) {
	if rule.GrowthForm != "" {
		p.GrowthForm = rule.GrowthForm
	}
	if rule.LightClass != "" {
		p.LightClass = rule.LightClass
	}
	if rule.WateringStrategy != "" {
		p.WateringStrategy = rule.WateringStrategy
	}
	if rule.PreferredOrientation != "" {
		p.PreferredOrientation = rule.PreferredOrientation
	}
	if len(rule.AlternateOrientations) > 0 {
		p.AlternateOrientations = append([]entities.Orientation(nil), rule.AlternateOrientations...)
	}
	if rule.SeasonalNote != "" {
		p.SeasonalNote = rule.SeasonalNote
	}
}

func validateProfile(p *entities.Profile) error {
	switch p.LightClass {
	case entities.LightBrightDirect, entities.LightBrightIndirect, entities.LightMedium, entities.LightLow:
	default:
		return fmt.Errorf("classification returned unknown light class %q", p.LightClass)
	}
	switch p.WateringStrategy {
	case entities.WaterDrenchAndDry, entities.WaterEvenlyMoist, entities.WaterModerate, entities.WaterDroughtTolerant:
	default:
		return fmt.Errorf("classification returned unknown watering strategy %q", p.WateringStrategy)
	}
	if !entities.ValidOrientation(p.PreferredOrientation) {
		return fmt.Errorf("classification returned unknown orientation %q", p.PreferredOrientation)
	}
	return nil
}

// SanitizeProfile enforces the orientation invariant: alternates never include
// the preferred orientation, are deduplicated, drop unknown values, and are
// ordered by the canonical priority list. Idempotent.
func SanitizeProfile(p *entities.Profile) {
	seen := make(map[entities.Orientation]bool, len(p.AlternateOrientations))
	for _, o := range p.AlternateOrientations {
		seen[o] = true
	}

	cleaned := make([]entities.Orientation, 0, len(p.AlternateOrientations))
	for _, o := range entities.OrientationPriority {
		if seen[o] && o != p.PreferredOrientation {
			cleaned = append(cleaned, o)
		}
	}
	p.AlternateOrientations = cleaned
}

// CanonicalBinomial lowercases a scientific name and keeps its first two
// words, stripping cultivar and author noise.
func CanonicalBinomial(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(words) >= 2 {
		return words[0] + " " + words[1]
	}
	return strings.Join(words, " ")
}

// plantInput builds the input block shared by every generation call.
func plantInput(scientificName, displayName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scientific name: %s\n", scientificName)
	if displayName != "" {
		fmt.Fprintf(&b, "Common name: %s\n", displayName)
	}
	return b.String()
}
