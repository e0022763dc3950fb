package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voxroute/voxroute/internal/config"
	"github.com/voxroute/voxroute/pkg/models"
)

var (
	runKind      string
	runTags      []string
	runPriority  string
	runInputFile string
	runShowTrace bool
)

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Submit a task and print the result",
	Long: `Submit one task to the engine and print the outcome, including the
worker selection trace.

The input payload is the argument text, or the contents of --input-file.

Examples:
  voxroute run --tags analysis "this is great, thanks"
  voxroute run --kind entity_extraction --tags nlp,entity-extraction "call Anna in Berlin"
  voxroute run --kind tts --tags tts --priority high "welcome back"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVar(&runKind, "kind", string(models.KindAnalysis), "Task kind")
	runCmd.Flags().StringSliceVar(&runTags, "tags", nil, "Required expertise tags (comma separated)")
	runCmd.Flags().StringVar(&runPriority, "priority", string(models.PriorityMedium), "Task priority (low, medium, high, critical)")
	runCmd.Flags().StringVar(&runInputFile, "input-file", "", "Read the payload from a file instead of the argument")
	runCmd.Flags().BoolVar(&runShowTrace, "trace", true, "Print the selection reasoning trace")
}

func runTask(cmd *cobra.Command, args []string) error {
	if len(runTags) == 0 {
		return fmt.Errorf("at least one --tags value is required")
	}

	var input []byte
	switch {
	case runInputFile != "":
		data, err := os.ReadFile(runInputFile)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		input = data
	case len(args) == 1:
		input = []byte(args[0])
	default:
		return fmt.Errorf("provide an input argument or --input-file")
	}

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

	result, err := eng.orch.Submit(cmd.Context(), models.TaskRequest{
		Kind:         models.TaskKind(runKind),
		Input:        input,
		RequiredTags: runTags,
		Priority:     models.TaskPriority(runPriority),
	})
	if result != nil {
		printResult(result)
	}
	return err
}

// printResult renders a task outcome for the terminal.
func printResult(result *models.TaskResult) {
	fmt.Printf("Task %s\n", result.TaskID)

	switch result.Status {
	case models.TaskStatusCompleted:
		printStatus("✓", fmt.Sprintf("completed by %s in %s", result.WorkerID, result.Duration.Round(time.Millisecond)), color.FgGreen)
	default:
		printStatus("✗", string(result.Status), color.FgRed)
	}

	if runShowTrace && len(result.Trace) > 0 {
		fmt.Println("\nSelection trace:")
		for i, step := range result.Trace {
			fmt.Printf("  %d. %-8s (%.2f) %s\n", i+1, step.Step, step.Confidence, step.Detail)
		}
	}

	if result.FinalReasoning != "" {
		fmt.Printf("\nReasoning: %s\n", result.FinalReasoning)
		fmt.Printf("Confidence: %.2f\n", result.Confidence)
	}

	if len(result.Output) > 0 {
		out := strings.TrimSpace(string(result.Output))
		fmt.Printf("\nOutput:\n%s\n", out)
	}
}
