package ports

import "github.com/mcnamara-charles/planter-core/internal/domain/entities"

// ProgressFunc receives stage progress events. The pipeline never blocks on a
// consumer and continues regardless of consumer panics or absence.
type ProgressFunc func(entities.ProgressEvent)
