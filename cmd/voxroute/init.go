package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voxroute/voxroute/internal/config"
)

var (
	initForce        bool
	initWithManifest bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize voxroute configuration",
	Long: `Initialize voxroute for this machine.

This command sets up everything needed to run voxroute:
  - Writes a default user config to the XDG config directory
  - Checks Anthropic credentials (optional; routing works without them)
  - Optionally writes an example worker manifest

Examples:
  voxroute init                  # Write default config
  voxroute init --force          # Overwrite an existing config
  voxroute init --with-manifest  # Also create workers.yaml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
	initCmd.Flags().BoolVar(&initWithManifest, "with-manifest", false, "Create an example worker manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.GetUserConfigPath()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
		return nil
	}

	fmt.Printf("Initializing voxroute...\n\n")

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		printStatus("✗", "Failed to write configuration", color.FgRed)
		return err
	}
	printStatus("✓", fmt.Sprintf("Wrote default config to %s", configPath), color.FgGreen)

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (oracle tie-breaks and response generation disabled)", color.FgYellow)
	} else {
		if err := config.ValidateAPIKey(apiKey); err != nil {
			printStatus("⚠", fmt.Sprintf("ANTHROPIC_API_KEY looks invalid: %v", err), color.FgYellow)
		} else {
			printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
		}
	}

	if initWithManifest {
		manifestPath := filepath.Join(filepath.Dir(configPath), "workers.yaml")
		if err := writeExampleManifest(manifestPath); err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Wrote example worker manifest to %s", manifestPath), color.FgGreen)
	}

	fmt.Printf("\n%s voxroute initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	if apiKey == "" {
		fmt.Println("  1. (Optional) Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println()
	}
	fmt.Println("  2. Submit a task:")
	fmt.Println("     voxroute run --tags analysis \"this is great, thanks\"")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     voxroute --help")

	return nil
}

// writeExampleManifest creates a starter worker manifest.
func writeExampleManifest(path string) error {
	if _, err := os.Stat(path); err == nil && !initForce {
		return nil
	}

	example := `# voxroute worker manifest.
# Each entry registers a capability over one of the named executors:
# transcribe, extract, analyze, synthesize, echo.
workers:
  - id: manifest-transcriber
    name: Manifest Transcriber
    description: Example transcription worker
    expertise_tags: [transcription, audio]
    base_confidence: 0.8
    adapter: transcribe
`
	if err := os.WriteFile(path, []byte(example), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
