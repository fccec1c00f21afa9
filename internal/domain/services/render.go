package services

import (
	"errors"
	"strings"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// ErrNoProfile is returned when a renderer is invoked without its prerequisite
// profile. This is an invariant violation, never silently defaulted.
var ErrNoProfile = errors.New("renderer requires a classified profile")

var lightTemplates = map[entities.LightClass]string{
	entities.LightBrightDirect:   "Give it several hours of bright, direct sun each day",
	entities.LightBrightIndirect: "Provide plenty of bright, indirect light",
	entities.LightMedium:         "It does well in moderate, filtered light",
	entities.LightLow:            "It tolerates low light, though growth will slow",
}

var waterTemplates = map[entities.WateringStrategy]string{
	entities.WaterDrenchAndDry:    "Water deeply, then allow the soil to dry out completely before watering again.",
	entities.WaterEvenlyMoist:     "Keep the soil evenly moist but never waterlogged.",
	entities.WaterModerate:        "It needs moderate watering; let the top inch of soil dry before watering again.",
	entities.WaterDroughtTolerant: "Water sparingly and let the soil dry out completely between waterings.",
}

// RenderLight deterministically renders the light field from the profile's
// categorical values. No model call.
func RenderLight(p *entities.Profile) (string, error) {
	if p == nil {
		return "", ErrNoProfile
	}
	SanitizeProfile(p)

	template, ok := lightTemplates[p.LightClass]
	if !ok {
		return "", errors.New("profile has no light class")
	}

	var b strings.Builder
	b.WriteString(template)
	b.WriteString(", ideally near ")
	b.WriteString(article(p.PreferredOrientation))
	b.WriteString(" ")
	b.WriteString(string(p.PreferredOrientation))
	b.WriteString("-facing window")

	if len(p.AlternateOrientations) > 0 {
		b.WriteString("; ")
		b.WriteString(article(p.AlternateOrientations[0]))
		b.WriteString(" ")
		b.WriteString(joinOrientations(p.AlternateOrientations))
		b.WriteString("-facing spot also works")
	}
	b.WriteString(".")

	if p.SeasonalNote != "" {
		b.WriteString(" ")
		b.WriteString(ensureSentence(p.SeasonalNote))
	}
	return b.String(), nil
}

// RenderWater deterministically renders the water field from the profile's
// categorical values. No model call.
func RenderWater(p *entities.Profile) (string, error) {
	if p == nil {
		return "", ErrNoProfile
	}

	template, ok := waterTemplates[p.WateringStrategy]
	if !ok {
		return "", errors.New("profile has no watering strategy")
	}

	if p.GrowthForm == entities.GrowthSucculent {
		return template + " Reduce frequency further in winter.", nil
	}
	return template, nil
}

const (
	moderatePhrase   = "moderate watering"
	dryOutPhrase     = "dry out completely"
	deepWaterCleanup = "Water deeply, then allow the soil to dry out completely between waterings."
)

// RepairWaterText removes the contradiction that arises when a watering text
// asserts moderate watering while the surrounding guidance demands the soil
// dry out completely. The conflicting sentence is replaced; anything else
// passes through unchanged.
func RepairWaterText(lightText, waterText string) string {
	dryAsserted := strings.Contains(waterText, dryOutPhrase) || strings.Contains(lightText, dryOutPhrase)
	if !dryAsserted {
		return waterText
	}

	for i := 0; i < 5 && strings.Contains(waterText, moderatePhrase); i++ {
		waterText = replaceSentenceContaining(waterText, moderatePhrase, deepWaterCleanup)
	}
	return waterText
}

// replaceSentenceContaining swaps the whole sentence holding phrase for the
// replacement text.
func replaceSentenceContaining(text, phrase, replacement string) string {
	idx := strings.Index(text, phrase)
	if idx < 0 {
		return text
	}

	start := strings.LastIndex(text[:idx], ". ")
	if start < 0 {
		start = 0
	} else {
		start += 2
	}

	end := strings.Index(text[idx:], ".")
	if end < 0 {
		end = len(text)
	} else {
		end = idx + end + 1
	}

	return text[:start] + replacement + text[end:]
}

// article selects the grammatical article for an orientation: the
// vowel-initial orientation takes "an", all others take "a".
func article(o entities.Orientation) string {
	if strings.HasPrefix(string(o), "a") || strings.HasPrefix(string(o), "e") ||
		strings.HasPrefix(string(o), "i") || strings.HasPrefix(string(o), "o") ||
		strings.HasPrefix(string(o), "u") {
		return "an"
	}
	return "a"
}

// joinOrientations renders a hyphenated orientation list: "south- or west".
func joinOrientations(orientations []entities.Orientation) string {
	parts := make([]string, len(orientations))
	for i, o := range orientations {
		parts[i] = string(o)
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + "- or " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], "-, ") + "- or " + parts[len(parts)-1]
	}
}

func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}
