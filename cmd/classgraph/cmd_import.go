package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/java"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <location>...",
		Short: "Import class files and summarize the resulting graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}

			origins := map[java.Origin]int{}
			dependencies := 0
			for _, c := range res.Classes.All() {
				origins[c.Origin()]++
			}
			for _, c := range res.Classes.Slice() {
				dependencies += len(c.DependenciesFromSelf())
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Metric", "Count"})
			t.AppendRow(table.Row{"imported classes", origins[java.OriginImported]})
			t.AppendRow(table.Row{"resolved classes", origins[java.OriginResolved]})
			t.AppendRow(table.Row{"stub classes", origins[java.OriginStub]})
			t.AppendRow(table.Row{"packages", len(res.Classes.DefaultPackage().AllSubPackages())})
			t.AppendRow(table.Row{"dependencies", dependencies})
			t.AppendRow(table.Row{"failures", len(res.Failures)})
			t.Render()

			if len(res.Failures) > 0 {
				ft := table.NewWriter()
				ft.SetOutputMirror(cmd.OutOrStdout())
				ft.SetStyle(table.StyleLight)
				ft.AppendHeader(table.Row{"Source", "Error"})
				for _, f := range res.Failures {
					ft.AppendRow(table.Row{f.Source, f.Err})
				}
				ft.Render()
			}
			return nil
		},
	}
}
