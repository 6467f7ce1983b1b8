package main

import (
	"fmt"

	"github.com/aretw0/waymark/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state graph visualization",
	Long: `Outputs a Mermaid diagram (graph LR) of the states and transitions, highlighting
the initial states. With --to, the best path to that state is highlighted too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := cli.CreateEngine(engineOptions(cmd), newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		var path []string
		if to, _ := cmd.Flags().GetString("to"); to != "" {
			paths, err := eng.FindPaths(to)
			if err != nil {
				return err
			}
			if best, ok := paths.Best(); ok {
				path = eng.Names(best)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), eng.Mermaid(path...))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("to", "", "Highlight the best path to this state")
}
