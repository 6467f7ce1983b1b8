package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/waymark/internal/presentation/tui"
	"github.com/aretw0/waymark/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the graph for consistency",
	Long: `Reports transitions to unknown states, search regions that depend on missing
objects and cyclic search region dependencies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		def, err := config.Load(file)
		if err != nil {
			return err
		}

		if err := def.Validate(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), tui.Failure("Validation failed:"))
			for _, p := range problems(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %v\n", p)
			}
			return errors.New("invalid graph")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %d states, %d transitions\n",
			tui.Success("Graph is valid! ✅"), len(def.States), len(def.Transitions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// problems flattens joined errors and validator errors into single problems.
func problems(err error) []error {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range multi.Unwrap() {
		out = append(out, problems(e)...)
	}
	return out
}
