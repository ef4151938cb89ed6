// ABOUTME: Devices command enumerating playback outputs
// ABOUTME: Prints each device name and the id accepted by --monitor/--broadcast
package cmd

import (
	"fmt"

	"github.com/duotone-audio/duotone-go/internal/hostcfg"
	"github.com/spf13/cobra"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List playback devices",
	Long: `Devices lists the playback devices the selected audio backend can open.
The printed ids are what the play command's --monitor and --broadcast
flags accept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := hostcfg.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		backend, err := newBackend(cfg.Audio.Backend)
		if err != nil {
			return err
		}
		defer backend.Close()

		devices, err := backend.Devices()
		if err != nil {
			return fmt.Errorf("failed to enumerate playback devices: %w", err)
		}
		if len(devices) == 0 {
			fmt.Println("No playback devices found")
			return nil
		}

		fmt.Println("Playback devices (* = system default):")
		for _, d := range devices {
			marker := " "
			if d.Default {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, d.Name)
			fmt.Printf("    id: %s\n", d.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
