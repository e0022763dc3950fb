package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/voxroute/voxroute/internal/config"
	"github.com/voxroute/voxroute/internal/metrics"
)

var metricsReset bool

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show per-worker metrics",
	Long: `Show the persisted per-worker metrics: task counts, success rate, and
average response time.`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsReset, "reset", false, "Clear all persisted metrics")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Metrics.Persist {
		fmt.Println("Metrics persistence is disabled (metrics.persist: false).")
		return nil
	}

	dbPath := cfg.Metrics.DBPath
	if dbPath == "" {
		dbPath = metrics.DefaultDBPath()
	}
	store, err := metrics.OpenPersistentStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if metricsReset {
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Println("Metrics cleared.")
		return nil
	}

	all := store.GetAll()
	if len(all) == 0 {
		fmt.Println("No metrics recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("%-24s %8s %10s %8s %10s %10s\n", "WORKER", "TOTAL", "COMPLETED", "FAILED", "SUCCESS", "AVG MS")
	for _, id := range ids {
		m := all[id]
		fmt.Printf("%-24s %8d %10d %8d %9.1f%% %10.1f\n",
			m.WorkerID, m.TotalTasks, m.CompletedTasks, m.FailedTasks,
			m.SuccessRate*100, m.AverageResponseTimeMs)
	}
	return nil
}
