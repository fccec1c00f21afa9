package ports

import (
	"context"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

// RecordStore reads and partially updates persisted plant records. The
// pipeline never inserts; records must pre-exist. Updates are column-level,
// never full-row overwrites.
type RecordStore interface {
	// ReadRecord returns the record for id, or nil when it does not exist.
	ReadRecord(ctx context.Context, id string) (*entities.PlantRecord, error)

	// UpdateRecord writes only the given fields. An empty map is rejected;
	// callers skip the call instead.
	UpdateRecord(ctx context.Context, id string, fields map[entities.FieldName]any) error
}
