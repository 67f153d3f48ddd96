package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/java"
)

func newPackagesCmd() *cobra.Command {
	var (
		root     string
		imported bool
	)

	cmd := &cobra.Command{
		Use:   "packages <location>...",
		Short: "List packages with their classes and package dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}
			start := res.Classes.DefaultPackage()
			if root != "" {
				if start, err = res.Classes.Package(root); err != nil {
					return err
				}
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Package", "Classes", "Depends on", "Used by"})
			start.AcceptPackages(java.Anything[*java.Package](), func(p *java.Package) {
				if imported && !hasImportedClass(p) {
					return
				}
				t.AppendRow(table.Row{
					p.Name(),
					len(p.Classes()),
					len(p.PackageDependenciesFromSelf()),
					len(p.PackageDependenciesToSelf()),
				})
			})
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "only list packages below this one")
	cmd.Flags().BoolVar(&imported, "imported", true, "only list packages containing imported classes")

	return cmd
}

func hasImportedClass(p *java.Package) bool {
	for _, c := range p.Classes() {
		if c.IsDirectlyImported() {
			return true
		}
	}
	return false
}
