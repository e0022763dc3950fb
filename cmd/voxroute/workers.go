package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voxroute/voxroute/internal/config"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List registered workers",
	Long: `List every worker the engine would register: built-ins, the Claude
generation worker when credentials are available, and manifest workers.`,
	Args: cobra.NoArgs,
	RunE: runWorkers,
}

func runWorkers(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		eng.shutdown(ctx)
	}()

	caps := eng.orch.Registry().All()
	if len(caps) == 0 {
		fmt.Println("No workers registered.")
		return nil
	}

	sort.Slice(caps, func(i, j int) bool { return caps[i].ID < caps[j].ID })

	bold := color.New(color.Bold)
	fmt.Printf("%d registered worker(s):\n\n", len(caps))
	for _, c := range caps {
		fmt.Printf("%s  %s\n", bold.Sprint(c.ID), c.Name)
		if c.Description != "" {
			fmt.Printf("    %s\n", c.Description)
		}
		fmt.Printf("    tags: %s  confidence: %.2f  breaker: %s\n",
			strings.Join(c.ExpertiseTags, ", "), c.BaseConfidence, eng.orch.BreakerState(c.ID))
	}
	return nil
}
