package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "planter.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestNewRepository_RequiresPath(t *testing.T) {
	_, err := NewRepository(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planter.db")
	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, path, repo.Path())
}

func TestReadRecord_MissingReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	rec, err := repo.ReadRecord(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSeedAndReadRecord(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", "Swiss Cheese Plant"))

	rec, err := repo.ReadRecord(ctx, "plant-1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "plant-1", rec.ID)
	assert.Equal(t, "Monstera deliciosa", rec.ScientificName)
	assert.Equal(t, "Swiss Cheese Plant", rec.DisplayName)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.Propagation)
	assert.Nil(t, rec.GenerationMeta)
	assert.Zero(t, rec.RulesetVersion)
}

func TestUpdateRecord_PartialUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))
	require.NoError(t, repo.UpdateRecord(ctx, "plant-1", map[entities.FieldName]any{
		entities.FieldDescription: "A large-leafed climber.",
		entities.FieldWater:       "Keep the soil evenly moist.",
	}))

	rec, err := repo.ReadRecord(ctx, "plant-1")
	require.NoError(t, err)
	assert.Equal(t, "A large-leafed climber.", rec.Description)
	assert.Equal(t, "Keep the soil evenly moist.", rec.Water)

	// Columns outside the payload are untouched.
	assert.Empty(t, rec.Light)
	assert.Zero(t, rec.RulesetVersion)
}

func TestUpdateRecord_PropagationRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))

	techniques := []entities.PropagationTechnique{
		{Method: entities.PropagationStemCutting, Difficulty: entities.DifficultyEasy, Description: "Root a node in water."},
		{Method: entities.PropagationAirLayering, Difficulty: entities.DifficultyModerate, Description: "Wrap a node in moist sphagnum."},
	}
	require.NoError(t, repo.UpdateRecord(ctx, "plant-1", map[entities.FieldName]any{
		entities.FieldPropagation: techniques,
	}))

	rec, err := repo.ReadRecord(ctx, "plant-1")
	require.NoError(t, err)
	assert.Equal(t, techniques, rec.Propagation)
}

func TestUpdateRecord_VersionAndMeta(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))

	meta := &entities.GenerationMeta{
		Model:       "gpt-4o-mini",
		RunID:       "run-abc",
		GeneratedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.UpdateRecord(ctx, "plant-1", map[entities.FieldName]any{
		entities.FieldRulesetVersion: 5,
		entities.FieldGenerationMeta: meta,
	}))

	rec, err := repo.ReadRecord(ctx, "plant-1")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.RulesetVersion)
	require.NotNil(t, rec.GenerationMeta)
	assert.Equal(t, meta.Model, rec.GenerationMeta.Model)
	assert.Equal(t, meta.RunID, rec.GenerationMeta.RunID)
	assert.True(t, meta.GeneratedAt.Equal(rec.GenerationMeta.GeneratedAt))
}

func TestUpdateRecord_EmptyPayloadRejected(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.UpdateRecord(context.Background(), "plant-1", nil)
	assert.Error(t, err)
}

func TestUpdateRecord_MissingRecordRejected(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.UpdateRecord(context.Background(), "ghost", map[entities.FieldName]any{
		entities.FieldWater: "Water weekly.",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestUpdateRecord_WrongValueTypeRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))

	err := repo.UpdateRecord(ctx, "plant-1", map[entities.FieldName]any{
		entities.FieldWater: 42,
	})
	assert.Error(t, err)

	err = repo.UpdateRecord(ctx, "plant-1", map[entities.FieldName]any{
		entities.FieldName("bogus"): "value",
	})
	assert.Error(t, err)
}

func TestSeedRecord_DuplicateIDRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))
	assert.Error(t, repo.SeedRecord(ctx, "plant-1", "Monstera deliciosa", ""))
}
