package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/java"
)

func newClassCmd() *cobra.Command {
	var className string

	cmd := &cobra.Command{
		Use:   "class <location>...",
		Short: "Describe one imported class with its accesses in both directions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}
			c, err := res.Classes.Get(className)
			if err != nil {
				return err
			}
			describe(cmd.OutOrStdout(), c)
			return nil
		},
	}

	cmd.Flags().StringVarP(&className, "name", "n", "", "fully qualified class name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func describe(w io.Writer, c *java.Class) {
	fmt.Fprintf(w, "%s (%s, %s)\n", c.Description(), c.Kind(), c.Modifiers())
	for _, s := range c.AllSuperclasses() {
		fmt.Fprintf(w, "  superclass %s\n", s.Name())
	}
	for _, iface := range c.AllInterfaces() {
		fmt.Fprintf(w, "  interface %s\n", iface.Name())
	}
	for _, a := range c.Annotations() {
		fmt.Fprintf(w, "  %s\n", a.Description())
	}
	for _, f := range c.Fields() {
		fmt.Fprintf(w, "  %s: %s\n", f.Description(), f.Type().Name())
	}
	for _, u := range c.CodeUnits() {
		fmt.Fprintf(w, "  %s\n", u.Description())
	}
	for _, a := range c.AccessesFromSelf() {
		fmt.Fprintf(w, "  -> %s\n", a.Description())
	}
	for _, a := range c.AccessesToSelf() {
		fmt.Fprintf(w, "  <- %s\n", a.Description())
	}
}
