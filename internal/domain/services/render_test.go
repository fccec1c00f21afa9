package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

func TestRenderLight(t *testing.T) {
	tests := []struct {
		name    string
		profile *entities.Profile
		want    string
	}{
		{
			name: "preferred with two alternates",
			profile: &entities.Profile{
				LightClass:            entities.LightBrightIndirect,
				PreferredOrientation:  entities.OrientationEast,
				AlternateOrientations: []entities.Orientation{entities.OrientationSouth, entities.OrientationWest},
			},
			want: "Provide plenty of bright, indirect light, ideally near an east-facing window; a south- or west-facing spot also works.",
		},
		{
			name: "no alternates",
			profile: &entities.Profile{
				LightClass:           entities.LightLow,
				PreferredOrientation: entities.OrientationNorth,
			},
			want: "It tolerates low light, though growth will slow, ideally near a north-facing window.",
		},
		{
			name: "seasonal note appended as sentence",
			profile: &entities.Profile{
				LightClass:           entities.LightBrightDirect,
				PreferredOrientation: entities.OrientationSouth,
				SeasonalNote:         "Shade from harsh midday sun in summer",
			},
			want: "Give it several hours of bright, direct sun each day, ideally near a south-facing window. Shade from harsh midday sun in summer.",
		},
		{
			name: "alternates repeating preferred are dropped before rendering",
			profile: &entities.Profile{
				LightClass:            entities.LightMedium,
				PreferredOrientation:  entities.OrientationWest,
				AlternateOrientations: []entities.Orientation{entities.OrientationWest, entities.OrientationEast},
			},
			want: "It does well in moderate, filtered light, ideally near a west-facing window; an east-facing spot also works.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderLight(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderLight_Deterministic(t *testing.T) {
	profile := &entities.Profile{
		LightClass:            entities.LightBrightIndirect,
		PreferredOrientation:  entities.OrientationEast,
		AlternateOrientations: []entities.Orientation{entities.OrientationWest, entities.OrientationSouth},
	}

	first, err := RenderLight(profile)
	require.NoError(t, err)
	second, err := RenderLight(profile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderLight_NilProfile(t *testing.T) {
	_, err := RenderLight(nil)
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestRenderWater(t *testing.T) {
	tests := []struct {
		name    string
		profile *entities.Profile
		want    string
	}{
		{
			name: "drench and dry",
			profile: &entities.Profile{
				GrowthForm:       entities.GrowthFoliage,
				WateringStrategy: entities.WaterDrenchAndDry,
			},
			want: "Water deeply, then allow the soil to dry out completely before watering again.",
		},
		{
			name: "succulent gets winter reduction",
			profile: &entities.Profile{
				GrowthForm:       entities.GrowthSucculent,
				WateringStrategy: entities.WaterDroughtTolerant,
			},
			want: "Water sparingly and let the soil dry out completely between waterings. Reduce frequency further in winter.",
		},
		{
			name: "evenly moist",
			profile: &entities.Profile{
				GrowthForm:       entities.GrowthVining,
				WateringStrategy: entities.WaterEvenlyMoist,
			},
			want: "Keep the soil evenly moist but never waterlogged.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderWater(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderWater_NilProfile(t *testing.T) {
	_, err := RenderWater(nil)
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestRepairWaterText(t *testing.T) {
	tests := []struct {
		name      string
		lightText string
		waterText string
		want      string
	}{
		{
			name:      "contradiction within water text replaced",
			waterText: "This plant needs moderate watering and thrives indoors. Always let the soil dry out completely between sessions.",
			want:      "Water deeply, then allow the soil to dry out completely between waterings. Always let the soil dry out completely between sessions.",
		},
		{
			name:      "contradiction triggered by light text",
			lightText: "Bright sun helps the soil dry out completely between waterings.",
			waterText: "It needs moderate watering; let the top inch of soil dry before watering again.",
			want:      "Water deeply, then allow the soil to dry out completely between waterings.",
		},
		{
			name:      "no dry-out assertion passes through",
			waterText: "It needs moderate watering; let the top inch of soil dry before watering again.",
			want:      "It needs moderate watering; let the top inch of soil dry before watering again.",
		},
		{
			name:      "no moderate claim passes through",
			waterText: "Water deeply, then allow the soil to dry out completely before watering again.",
			want:      "Water deeply, then allow the soil to dry out completely before watering again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairWaterText(tt.lightText, tt.waterText)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepairWaterText_Idempotent(t *testing.T) {
	in := "This plant needs moderate watering. Let the soil dry out completely."
	once := RepairWaterText("", in)
	twice := RepairWaterText("", once)
	assert.Equal(t, once, twice)
}

func TestReplaceSentenceContaining(t *testing.T) {
	got := replaceSentenceContaining(
		"First sentence. It needs moderate watering daily. Last sentence.",
		"moderate watering",
		"Replacement.",
	)
	assert.Equal(t, "First sentence. Replacement. Last sentence.", got)
}

func TestArticle(t *testing.T) {
	assert.Equal(t, "an", article(entities.OrientationEast))
	assert.Equal(t, "a", article(entities.OrientationSouth))
	assert.Equal(t, "a", article(entities.OrientationWest))
	assert.Equal(t, "a", article(entities.OrientationNorth))
}

func TestJoinOrientations(t *testing.T) {
	tests := []struct {
		in   []entities.Orientation
		want string
	}{
		{[]entities.Orientation{entities.OrientationSouth}, "south"},
		{[]entities.Orientation{entities.OrientationSouth, entities.OrientationWest}, "south- or west"},
		{[]entities.Orientation{entities.OrientationSouth, entities.OrientationEast, entities.OrientationWest}, "south-, east- or west"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, joinOrientations(tt.in))
	}
}
