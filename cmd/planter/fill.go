package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcnamara-charles/planter-core/internal/application/handlers"
	"github.com/mcnamara-charles/planter-core/internal/domain/entities"
)

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <plant-id>",
		Short: "Generate the missing fields of a plant record",
		Long:  "Evaluates which fields are missing or forced by a ruleset change, generates them through the LLM backend, and persists only what was generated.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFill,
	}
	cmd.Flags().String("display-hint", "", "Common name to steer generation")
	return cmd
}

func runFill(cmd *cobra.Command, args []string) error {
	plantID := args[0]
	displayHint, _ := cmd.Flags().GetString("display-hint")

	return withDeps(func(d *Deps) error {
		result, err := d.FillHandler.Handle(cmd.Context(), plantID, handlers.FillOptions{
			DisplayHint: displayHint,
			Progress:    printProgress,
		})
		if err != nil {
			return err
		}

		if result.Skipped {
			fmt.Printf("%s is already complete (version %d)\n", plantID, result.RulesetVersion)
			return nil
		}

		fmt.Printf("Filled %d fields on %s (version %d):\n", len(result.Written), plantID, result.RulesetVersion)
		for _, f := range result.Written {
			fmt.Printf("  - %s\n", f)
		}
		return nil
	})
}

// printProgress streams stage transitions to stderr so stdout stays clean.
func printProgress(ev entities.ProgressEvent) {
	switch ev.Status {
	case entities.StageRunning:
		fmt.Fprintf(os.Stderr, "… %s\n", ev.Label)
	case entities.StageSuccess:
		fmt.Fprintf(os.Stderr, "✓ %s\n", ev.Label)
	case entities.StageError:
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", ev.Label, ev.Err)
	}
}
