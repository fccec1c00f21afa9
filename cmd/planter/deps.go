package main

import (
	"fmt"
	"os"

	"github.com/mcnamara-charles/planter-core/internal/application/handlers"
	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
	"github.com/mcnamara-charles/planter-core/internal/domain/services"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/config"
	llm "github.com/mcnamara-charles/planter-core/internal/infrastructure/llm/openai"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/logging"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/recordstore/sqlite"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/ruleset"
)

// Deps holds high-level dependencies for commands. Only handlers are exposed;
// services and repositories are internal.
type Deps struct {
	Config        *config.Config
	FillHandler   *handlers.FillHandler
	StatusHandler *handlers.StatusHandler
	Store         *sqlite.Repository
	Log           *logging.Logger
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer store.Close()

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating LLM client: %w", err)
	}

	table := ruleset.FromConfig(cfg.Ruleset.Deltas)

	profiles := services.NewProfileService(client, hardRulesFromConfig(cfg.HardRules))
	writer := services.NewDeltaWriter(store, client.Model())

	pipeline, err := services.NewPipeline(services.PipelineConfig{
		Store:         store,
		LLM:           client,
		Profiles:      profiles,
		Writer:        writer,
		ForcedSince:   table.Func(),
		TargetVersion: cfg.Ruleset.TargetVersion,
		Log:           log,
	})
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	deps := &Deps{
		Config:        cfg,
		FillHandler:   handlers.NewFillHandler(pipeline),
		StatusHandler: handlers.NewStatusHandler(store, table.Func(), cfg.Ruleset.TargetVersion),
		Store:         store,
		Log:           log,
	}
	return fn(deps)
}

// hardRulesFromConfig converts yaml hard rules into typed profile rules.
func hardRulesFromConfig(rules map[string]config.HardRuleConfig) map[string]services.HardRule {
	converted := make(map[string]services.HardRule, len(rules))
	for name, rc := range rules {
		rule := services.HardRule{
			GrowthForm:           entities.GrowthForm(rc.GrowthForm),
			LightClass:           entities.LightClass(rc.LightClass),
			WateringStrategy:     entities.WateringStrategy(rc.WateringStrategy),
			PreferredOrientation: entities.Orientation(rc.PreferredOrientation),
			SeasonalNote:         rc.SeasonalNote,
		}
		for _, o := range rc.AlternateOrientations {
			rule.AlternateOrientations = append(rule.AlternateOrientations, entities.Orientation(o))
		}
		converted[services.CanonicalBinomial(name)] = rule
	}
	return converted
}
