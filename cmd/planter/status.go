package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <plant-id>",
		Short: "Show which fields of a plant record still need generation",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	plantID := args[0]

	return withDeps(func(d *Deps) error {
		result, err := d.StatusHandler.Handle(cmd.Context(), plantID)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", result.ScientificName, result.PlantID)
		fmt.Printf("  ruleset version: %d (target %d)\n", result.RulesetVersion, result.TargetVersion)

		if !result.NeedsAnyWork {
			fmt.Println("  complete: nothing to generate")
			return nil
		}

		if len(result.Missing) > 0 {
			fmt.Println("  missing:")
			for _, f := range result.Missing {
				fmt.Printf("    - %s\n", f)
			}
		}
		if len(result.Forced) > 0 {
			fmt.Println("  forced by ruleset change:")
			for _, f := range result.Forced {
				fmt.Printf("    - %s\n", f)
			}
		}
		return nil
	})
}
