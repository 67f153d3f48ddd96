package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/classgraph/format"
	"github.com/dhamidi/classgraph/java"
)

func newClassesCmd() *cobra.Command {
	var (
		outputFormat string
		inPackage    string
		namePattern  string
		assignableTo string
		annotated    string
	)

	cmd := &cobra.Command{
		Use:   "classes <location>...",
		Short: "Print the imported classes that match the filters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			res, err := importLocations(cmd, args)
			if err != nil {
				return fmt.Errorf("import classes: %w", err)
			}

			pred := java.Anything[*java.Class]()
			if inPackage != "" {
				pred = pred.And(java.ResideInAPackage(inPackage))
			}
			if namePattern != "" {
				if _, err := regexp.Compile(namePattern); err != nil {
					return fmt.Errorf("parse --name: %w", err)
				}
				pred = pred.And(java.NameMatching[*java.Class](namePattern))
			}
			if assignableTo != "" {
				pred = pred.And(java.AssignableTo(assignableTo))
			}
			if annotated != "" {
				pred = pred.And(java.AnnotatedWith(annotated))
			}
			selected := res.Classes.That(pred)
			log.Infof("%d of %d classes are %s", selected.Len(), res.Classes.Len(), pred.Description())

			for _, c := range selected.Slice() {
				if err := enc.Encode(c); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().StringVar(&inPackage, "package", "", "package identifier, for example ..service..")
	cmd.Flags().StringVar(&namePattern, "name", "", "regular expression matching the full class name")
	cmd.Flags().StringVar(&assignableTo, "assignable-to", "", "only classes assignable to this type")
	cmd.Flags().StringVar(&annotated, "annotated-with", "", "only classes carrying this annotation")

	return cmd
}
