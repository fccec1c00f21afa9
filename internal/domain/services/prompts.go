package services

// Generation instructions, one per fragment schema. Each call pairs one of
// these with a short input block naming the plant.

const factsInstructions = `You are a horticultural copywriter for a plant care app. For the given plant, write:
- description: two to four warm, factual sentences a beginner can follow
- rarity: how hard the plant is to find in cultivation
- availability: where a buyer would realistically find it

Judge the three together so they agree with each other. Return a single JSON object matching the schema.`

const displayNameInstructions = `Suggest the single most recognisable English common name for the given plant. Prefer the name a garden centre would put on the label. Return a JSON object with one "display_name" key.`

const profileInstructions = `Classify the given plant's care profile. Choose the closest category for each attribute:
- growth_form: how the plant grows
- light_class: its light requirement
- watering_strategy: its watering requirement
- preferred_orientation: the best window orientation in the northern hemisphere
- alternate_orientations: other orientations that also work (may be empty)
- seasonal_note: one short seasonal caveat, or an empty string

Return a single JSON object matching the schema.`

const tempHumInstructions = `Write one or two sentences of temperature and humidity guidance for the given plant: comfortable range, what to avoid, and whether it wants extra humidity. Return a JSON object with one "text" key.`

const fertilizerInstructions = `Write one or two sentences of fertilizing guidance for the given plant: what to feed, how strong, and how often through the year. Return a JSON object with one "text" key.`

const pruningInstructions = `Write one or two sentences of pruning guidance for the given plant: when to prune, what to remove, and anything to avoid. Return a JSON object with one "text" key.`

const soilInstructions = `Write one or two sentences describing the ideal potting mix for the given plant: texture, drainage, and any amendments. Return a JSON object with one "text" key.`

const propagationInstructions = `List the propagation techniques that work for the given plant, ordered from most to least reliable for a home grower. For each give the method, its difficulty, and one sentence of instruction. Return a JSON object with a "techniques" array matching the schema.`
