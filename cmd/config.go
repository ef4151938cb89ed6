// ABOUTME: Configuration management commands
// ABOUTME: Shows the resolved host config and writes it out as a file
package cmd

import (
	"fmt"

	"github.com/duotone-audio/duotone-go/internal/hostcfg"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for inspecting and persisting the duotone host configuration.",
}

// configShowCmd shows the resolved configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the configuration resolved from file, environment, and defaults.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := hostcfg.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Println("Current configuration:")
		fmt.Printf("  Audio:\n")
		fmt.Printf("    Instrumental volume: %.2f\n", cfg.Audio.InstrumentalVolume)
		fmt.Printf("    Vocal volume: %.2f\n", cfg.Audio.VocalVolume)
		fmt.Printf("    Sample rate: %d\n", cfg.Audio.SampleRate)
		fmt.Printf("    Backend: %s\n", cfg.Audio.Backend)
		fmt.Printf("  Devices:\n")
		fmt.Printf("    Monitor: %s\n", orFallback(cfg.Devices.Monitor, "(system default)"))
		fmt.Printf("    Broadcast: %s\n", orFallback(cfg.Devices.Broadcast, "(none)"))

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		return nil
	},
}

// configInitCmd persists the resolved configuration to a file
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the configuration to a file",
	Long:  "Write the resolved configuration to a YAML file, config.yaml by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		cfg, err := hostcfg.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}

		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// orFallback substitutes a placeholder for empty config values.
func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
