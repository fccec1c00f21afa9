// Package sqlite provides a SQLite implementation of the RecordStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// textColumns are the plain-text generatable columns.
var textColumns = map[entities.FieldName]bool{
	entities.FieldSuggestedDisplayName: true,
	entities.FieldDescription:          true,
	entities.FieldRarity:               true,
	entities.FieldAvailability:         true,
	entities.FieldLight:                true,
	entities.FieldWater:                true,
	entities.FieldTemperatureHumidity:  true,
	entities.FieldFertilizer:           true,
	entities.FieldPruning:              true,
	entities.FieldSoilDescription:      true,
}

// Repository implements ports.RecordStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS plants (
		id TEXT PRIMARY KEY,
		scientific_name TEXT NOT NULL,
		display_name TEXT,
		suggested_display_name TEXT,
		description TEXT,
		rarity TEXT,
		availability TEXT,
		light TEXT,
		water TEXT,
		temperature_humidity TEXT,
		fertilizer TEXT,
		pruning TEXT,
		soil_description TEXT,
		propagation_techniques TEXT,
		ruleset_version INTEGER NOT NULL DEFAULT 0,
		generation_meta TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_plants_scientific ON plants(scientific_name);
	CREATE INDEX IF NOT EXISTS idx_plants_version ON plants(ruleset_version);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// ReadRecord returns the record for id, or nil when it does not exist.
func (r *Repository) ReadRecord(ctx context.Context, id string) (*entities.PlantRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, scientific_name, COALESCE(display_name, ''),
			COALESCE(suggested_display_name, ''), COALESCE(description, ''),
			COALESCE(rarity, ''), COALESCE(availability, ''),
			COALESCE(light, ''), COALESCE(water, ''),
			COALESCE(temperature_humidity, ''), COALESCE(fertilizer, ''),
			COALESCE(pruning, ''), COALESCE(soil_description, ''),
			COALESCE(propagation_techniques, ''), ruleset_version,
			COALESCE(generation_meta, ''), created_at, updated_at
		FROM plants WHERE id = ?`, id)

	var rec entities.PlantRecord
	var propagation, meta string
	err := row.Scan(
		&rec.ID, &rec.ScientificName, &rec.DisplayName,
		&rec.SuggestedDisplayName, &rec.Description,
		&rec.Rarity, &rec.Availability,
		&rec.Light, &rec.Water,
		&rec.TemperatureHumidity, &rec.Fertilizer,
		&rec.Pruning, &rec.SoilDescription,
		&propagation, &rec.RulesetVersion,
		&meta, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plant %s: %w", id, err)
	}

	if propagation != "" {
		if err := json.Unmarshal([]byte(propagation), &rec.Propagation); err != nil {
			return nil, fmt.Errorf("parsing propagation techniques for %s: %w", id, err)
		}
	}
	if meta != "" {
		rec.GenerationMeta = &entities.GenerationMeta{}
		if err := json.Unmarshal([]byte(meta), rec.GenerationMeta); err != nil {
			return nil, fmt.Errorf("parsing generation meta for %s: %w", id, err)
		}
	}

	return &rec, nil
}

// UpdateRecord writes only the given fields as a targeted column-level update.
func (r *Repository) UpdateRecord(ctx context.Context, id string, fields map[entities.FieldName]any) error {
	if len(fields) == 0 {
		return errors.New("empty update payload")
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)

	for f, v := range fields {
		column, value, err := columnValue(f, v)
		if err != nil {
			return err
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, timeNow().UTC())
	args = append(args, id)

	query := "UPDATE plants SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating plant %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of plant %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("plant %s does not exist", id)
	}
	return nil
}

// SeedRecord inserts a bare record. The generation pipeline itself never
// inserts; this exists for bootstrap and tests.
func (r *Repository) SeedRecord(ctx context.Context, id, scientificName, displayName string) error {
	now := timeNow().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plants (id, scientific_name, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, scientificName, displayName, now, now)
	if err != nil {
		return fmt.Errorf("seeding plant %s: %w", id, err)
	}
	return nil
}

// columnValue maps a field to its column name and SQL value.
func columnValue(f entities.FieldName, v any) (string, any, error) {
	if textColumns[f] {
		s, ok := v.(string)
		if !ok {
			return "", nil, fmt.Errorf("field %s expects a string value", f)
		}
		return string(f), s, nil
	}

	switch f {
	case entities.FieldPropagation:
		techniques, ok := v.([]entities.PropagationTechnique)
		if !ok {
			return "", nil, fmt.Errorf("field %s expects a technique list", f)
		}
		data, err := json.Marshal(techniques)
		if err != nil {
			return "", nil, fmt.Errorf("marshaling propagation techniques: %w", err)
		}
		return string(f), string(data), nil
	case entities.FieldRulesetVersion:
		version, ok := v.(int)
		if !ok {
			return "", nil, fmt.Errorf("field %s expects an int value", f)
		}
		return string(f), version, nil
	case entities.FieldGenerationMeta:
		meta, ok := v.(*entities.GenerationMeta)
		if !ok {
			return "", nil, fmt.Errorf("field %s expects generation metadata", f)
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return "", nil, fmt.Errorf("marshaling generation meta: %w", err)
		}
		return string(f), string(data), nil
	default:
		return "", nil, fmt.Errorf("unknown field %s", f)
	}
}
