package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <scientific-name>",
		Short: "Seed a bare plant record",
		Long:  "Inserts a plant record with only its scientific name so a later 'planter fill' can generate the rest.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdd,
	}
	cmd.Flags().String("display-name", "", "Known common name for the plant")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	scientificName := args[0]
	displayName, _ := cmd.Flags().GetString("display-name")

	return withDeps(func(d *Deps) error {
		id := uuid.New().String()
		if err := d.Store.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		if err := d.Store.SeedRecord(cmd.Context(), id, scientificName, displayName); err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", scientificName, id)
		return nil
	})
}
