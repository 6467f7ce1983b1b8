package main

import (
	"fmt"

	"github.com/aretw0/waymark/internal/cli"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List every path from the initial states to a state",
	Long:  `Prints each path with its score, best first. Only the cheapest is tried first by navigation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		eng, closeFn, err := cli.CreateEngine(engineOptions(cmd), newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := cli.PrintPaths(cmd.OutOrStdout(), eng, to)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s is unreachable from %v", to, eng.Active())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.Flags().String("to", "", "Target state")
	_ = pathsCmd.MarkFlagRequired("to")
}
