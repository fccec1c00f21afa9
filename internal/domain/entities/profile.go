package entities

// Orientation is a compass window orientation.
type Orientation string

const (
	OrientationSouth Orientation = "south"
	OrientationEast  Orientation = "east"
	OrientationWest  Orientation = "west"
	OrientationNorth Orientation = "north"
)

// OrientationPriority is the canonical ordering used when listing alternate
// orientations. Stable across runs for identical input.
var OrientationPriority = []Orientation{
	OrientationSouth,
	OrientationEast,
	OrientationWest,
	OrientationNorth,
}

// ValidOrientation reports whether o is one of the four compass orientations.
func ValidOrientation(o Orientation) bool {
	for _, p := range OrientationPriority {
		if p == o {
			return true
		}
	}
	return false
}

// GrowthForm is a coarse categorisation of how the plant grows.
type GrowthForm string

const (
	GrowthFoliage   GrowthForm = "foliage"
	GrowthSucculent GrowthForm = "succulent"
	GrowthVining    GrowthForm = "vining"
	GrowthFlowering GrowthForm = "flowering"
	GrowthTree      GrowthForm = "tree"
)

// LightClass categorises the plant's light requirement.
type LightClass string

const (
	LightBrightDirect   LightClass = "bright_direct"
	LightBrightIndirect LightClass = "bright_indirect"
	LightMedium         LightClass = "medium"
	LightLow            LightClass = "low"
)

// WateringStrategy categorises the plant's watering requirement.
type WateringStrategy string

const (
	WaterDrenchAndDry    WateringStrategy = "drench_and_dry"
	WaterEvenlyMoist     WateringStrategy = "keep_evenly_moist"
	WaterModerate        WateringStrategy = "moderate"
	WaterDroughtTolerant WateringStrategy = "drought_tolerant"
)

// Profile is an ephemeral categorical classification of a plant, produced once
// per pipeline run and used to deterministically render the light and water
// fields. Never persisted.
type Profile struct {
	GrowthForm            GrowthForm       `json:"growth_form"`
	LightClass            LightClass       `json:"light_class"`
	WateringStrategy      WateringStrategy `json:"watering_strategy"`
	PreferredOrientation  Orientation      `json:"preferred_orientation"`
	AlternateOrientations []Orientation    `json:"alternate_orientations"`
	SeasonalNote          string           `json:"seasonal_note,omitempty"`
}
