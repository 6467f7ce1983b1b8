package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/waymark/internal/cli"
	"github.com/aretw0/waymark/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Navigate to a state without a screen",
	Long: `Walks the graph as if every object were visible, except that a state's objects
are found only with its probability (--seed makes the draws repeatable). Use --fail FROM->TO to make
transitions fail and watch navigation recover. With --profile the active states are
restored before and saved after the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		rawFailures, _ := cmd.Flags().GetStringArray("fail")
		profile, _ := cmd.Flags().GetString("profile")
		quiet, _ := cmd.Flags().GetBool("quiet")
		seed, _ := cmd.Flags().GetUint64("seed")

		out := cmd.OutOrStdout()
		opts := engineOptions(cmd, cli.PrintHooks(out))
		opts.Seed = seed
		for _, raw := range rawFailures {
			f, err := cli.ParseFailure(raw)
			if err != nil {
				return err
			}
			opts.Failures = append(opts.Failures, f)
		}

		if !quiet {
			tui.PrintBanner(out)
		}

		eng, closeFn, err := cli.CreateEngine(opts, newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if profile != "" {
			if _, err := eng.RestoreMemory(ctx, profile); err != nil {
				fmt.Fprintln(out, tui.Faint(fmt.Sprintf("No snapshot for %s, starting from the initial states", profile)))
			}
		}

		ok, err := cli.Simulate(ctx, out, eng, to)
		if err != nil {
			return err
		}

		if profile != "" {
			if err := eng.SaveMemory(ctx, profile); err != nil {
				return fmt.Errorf("failed to save memory: %w", err)
			}
		}
		if !ok {
			return fmt.Errorf("%s was not reached", to)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("to", "", "Target state")
	simulateCmd.Flags().StringArray("fail", nil, "Transition forced to fail, as FROM->TO (repeatable)")
	simulateCmd.Flags().String("profile", "", "Memory snapshot to restore and save")
	simulateCmd.Flags().Uint64("seed", 0, "Seed for probability draws (0 picks one at random)")
	simulateCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
	_ = simulateCmd.MarkFlagRequired("to")
}
