package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcnamara-charles/planter-core/internal/infrastructure/config"
	"github.com/mcnamara-charles/planter-core/internal/infrastructure/recordstore/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default config and an empty plant database",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return err
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.DBPath(cwd)})
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Initialized planter in %s (database %s)\n", config.ConfigDir(cwd), store.Path())
	return nil
}
