// Package services contains domain business logic.
package services

import (
	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/ports"
)

// Completeness is the result of evaluating a record against the current
// ruleset version.
type Completeness struct {
	// Missing holds fields with no non-empty trimmed value.
	Missing entities.FieldSet
	// Forced holds fields the ruleset delta requires to regenerate.
	Forced entities.FieldSet
}

// Needs reports whether a field is missing or forced.
func (c Completeness) Needs(f entities.FieldName) bool {
	return c.Missing.Has(f) || c.Forced.Has(f)
}

// NeedSet returns the union of missing and forced fields.
func (c Completeness) NeedSet() entities.FieldSet {
	return c.Missing.Union(c.Forced)
}

// NeedsAnyWork reports whether any generatable field needs work.
func (c Completeness) NeedsAnyWork() bool {
	return len(c.Missing) > 0 || len(c.Forced) > 0
}

// NeedsAnyOf reports whether any of the given fields needs work.
func (c Completeness) NeedsAnyOf(fields ...entities.FieldName) bool {
	for _, f := range fields {
		if c.Needs(f) {
			return true
		}
	}
	return false
}

// Evaluate computes which fields of the record are missing and which are
// forced to regenerate by the ruleset delta up to targetVersion. Pure: no
// network or storage calls. A nil record counts every field as missing.
func Evaluate(record *entities.PlantRecord, targetVersion int, forcedSince ports.ForcedFieldsFunc) Completeness {
	c := Completeness{
		Missing: make(entities.FieldSet),
		Forced:  make(entities.FieldSet),
	}

	for _, f := range entities.GeneratableFields() {
		if !record.FieldPresent(f) {
			c.Missing.Add(f)
		}
	}

	recordVersion := 0
	if record != nil {
		recordVersion = record.RulesetVersion
	}
	if forcedSince != nil {
		for f := range forcedSince(recordVersion, targetVersion) {
			c.Forced.Add(f)
		}
	}

	return c
}
