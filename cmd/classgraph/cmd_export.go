package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/export"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <location>...",
		Short: "Write the class graph to a SQLite database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}
			if err := export.WriteFile(cmd.Context(), output, res.Classes); err != nil {
				return fmt.Errorf("export graph: %w", err)
			}
			log.Noticef("wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "classgraph.db", "database file to create")

	return cmd
}
