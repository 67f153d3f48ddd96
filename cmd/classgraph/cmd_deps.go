package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/java"
)

func newDepsCmd() *cobra.Command {
	var (
		className   string
		packageName string
		kinds       []string
		inbound     bool
	)

	cmd := &cobra.Command{
		Use:   "deps <location>...",
		Short: "Print dependencies of classes or packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wanted := map[java.DependencyKind]bool{}
			for _, name := range kinds {
				k, ok := java.ParseDependencyKind(name)
				if !ok {
					return fmt.Errorf("unknown dependency kind: %s", name)
				}
				wanted[k] = true
			}

			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}

			var deps []java.Dependency
			switch {
			case className != "":
				c, err := res.Classes.Get(className)
				if err != nil {
					return err
				}
				if inbound {
					deps = c.DependenciesToSelf()
				} else {
					deps = c.DependenciesFromSelf()
				}
			case packageName != "":
				p, err := res.Classes.Package(packageName)
				if err != nil {
					return err
				}
				if inbound {
					deps = p.ClassDependenciesToSelf()
				} else {
					deps = p.ClassDependenciesFromSelf()
				}
			default:
				for _, c := range res.Classes.Slice() {
					deps = append(deps, c.DependenciesFromSelf()...)
				}
			}

			for _, d := range deps {
				if len(wanted) > 0 && !wanted[d.Kind] {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.Kind, d.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "only dependencies of this class")
	cmd.Flags().StringVar(&packageName, "package", "", "only dependencies crossing the boundary of this package")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only these dependency kinds, for example METHOD_CALL")
	cmd.Flags().BoolVar(&inbound, "inbound", false, "print dependencies onto the class or package instead")

	return cmd
}
