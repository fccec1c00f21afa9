package ports

import "github.com/mcnamara-charles/planter-core/internal/domain/entities"

// ForcedFieldsFunc returns the fields whose stored values must be regenerated
// because the generation ruleset changed between the two versions. Pure and
// total for from <= to; ForcedFieldsFunc(v, v) is always empty.
type ForcedFieldsFunc func(fromVersion, toVersion int) entities.FieldSet
