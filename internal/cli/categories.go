package cli

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/choregrapher/internal/category"
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the category vocabulary and default priority table of a schema",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := category.ParseSchema(schemaName)
			if err != nil {
				return usageError(err.Error())
			}

			vocab := schema.Vocabulary()
			names := make([]string, len(vocab))
			for i, c := range vocab {
				names[i] = c.String()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema: %s\n", schema)
			fmt.Fprintf(out, "categories: %s\n", strings.Join(names, ", "))
			fmt.Fprintln(out, "priority:")
			for i, row := range schema.DefaultPriority().Strings() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, strings.Join(row, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", "extended", "Category schema (minimal, extended)")
	return cmd
}
