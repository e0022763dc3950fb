package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voxroute",
	Short: "Task Orchestration & Resilience Engine",
	Long: `Voxroute routes pipeline tasks to the best-matching registered worker.

Each task carries required expertise tags; workers advertise capabilities
with tags and a confidence prior. Selection runs a multi-step reasoning
trace, optionally consulting Claude to break ties, and every worker
invocation is guarded by a timeout and a per-worker circuit breaker.

Core capabilities:
- Capability registry with tag-overlap scoring
- Explainable worker selection with a stored reasoning trace
- Per-worker rolling success and latency metrics (SQLite persisted)
- Timeouts, circuit breaking, and priority-ordered admission`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
