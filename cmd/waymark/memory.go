package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/waymark/internal/cli"
	"github.com/spf13/cobra"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage saved StateMemory snapshots",
	Long:  `List, inspect and remove the active-state snapshots saved by simulate --profile.`,
}

var memoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := cli.CreateEngine(engineOptions(cmd), newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		profiles, err := eng.Sessions().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing profiles: %w", err)
		}
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved profiles found.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Saved Profiles:")
		for _, p := range profiles {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+p)
		}
		return nil
	},
}

var memoryInspectCmd = &cobra.Command{
	Use:   "inspect <profile>",
	Short: "Print the snapshot of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := cli.CreateEngine(engineOptions(cmd), newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		snap, err := eng.Sessions().Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading profile '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var memoryRmCmd = &cobra.Command{
	Use:   "rm <profile>...",
	Short: "Remove one or more profiles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := cli.CreateEngine(engineOptions(cmd), newLogger(cmd))
		if err != nil {
			return err
		}
		defer closeFn()

		var failed int
		for _, profile := range args {
			if err := eng.Sessions().Delete(cmd.Context(), profile); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", profile, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed profile '%s'\n", profile)
		}
		if failed > 0 {
			return fmt.Errorf("%d profiles could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memoryLsCmd, memoryInspectCmd, memoryRmCmd)
}
