// Package ruleset maps ruleset-version deltas to the fields they force to
// regenerate.
package ruleset

import (
	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// defaultDeltas records, per ruleset version, the fields whose generation
// rules changed in that version. A record stamped below a version regenerates
// every field named by the versions above it.
var defaultDeltas = map[int][]entities.FieldName{
	2: {entities.FieldLight, entities.FieldWater},
	3: {entities.FieldDescription},
	4: {entities.FieldPropagation},
	5: {entities.FieldWater},
}

// Table is an immutable version-to-fields lookup.
type Table struct {
	deltas map[int][]entities.FieldName
}

// Default returns a table with the compiled-in deltas.
func Default() *Table {
	return New(defaultDeltas)
}

// New builds a table from the given deltas. The map is copied.
func New(deltas map[int][]entities.FieldName) *Table {
	copied := make(map[int][]entities.FieldName, len(deltas))
	for v, fields := range deltas {
		copied[v] = append([]entities.FieldName(nil), fields...)
	}
	return &Table{deltas: copied}
}

// FromConfig builds a table from config-supplied deltas, falling back to the
// defaults when none are configured.
func FromConfig(deltas map[int][]string) *Table {
	if len(deltas) == 0 {
		return Default()
	}
	converted := make(map[int][]entities.FieldName, len(deltas))
	for v, fields := range deltas {
		names := make([]entities.FieldName, len(fields))
		for i, f := range fields {
			names[i] = entities.FieldName(f)
		}
		converted[v] = names
	}
	return New(converted)
}

// Since returns the union of fields forced by every version v with
// from < v <= to. Since(v, v) is always empty.
func (t *Table) Since(from, to int) entities.FieldSet {
	forced := make(entities.FieldSet)
	for v, fields := range t.deltas {
		if v > from && v <= to {
			for _, f := range fields {
				forced.Add(f)
			}
		}
	}
	return forced
}

// Func exposes the table as a ports.ForcedFieldsFunc.
func (t *Table) Func() ports.ForcedFieldsFunc {
	return t.Since
}
