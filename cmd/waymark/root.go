package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/waymark/internal/cli"
	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waymark",
	Short: "Waymark navigates the state graph of a GUI automation",
	Long: `Waymark models an application as states joined by transitions and finds,
scores and walks the paths between them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "waymark.yaml", "Graph definition (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for matches, snapshots and locks")
	rootCmd.PersistentFlags().String("snapshots", cli.DefaultSnapshotDir, "Directory of memory snapshots when Redis is not used")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	raw, _ := cmd.Flags().GetString("log-level")
	level, _ := logging.ParseLevel(raw)
	return logging.New(level)
}

func engineOptions(cmd *cobra.Command, hooks ...domain.LifecycleHooks) cli.Options {
	file, _ := cmd.Flags().GetString("file")
	redisAddr, _ := cmd.Flags().GetString("redis")
	snapshots, _ := cmd.Flags().GetString("snapshots")
	return cli.Options{
		File:        file,
		RedisAddr:   redisAddr,
		SnapshotDir: snapshots,
		Hooks:       hooks,
	}
}
