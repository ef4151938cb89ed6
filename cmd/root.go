// ABOUTME: Root command for the duotone CLI
// ABOUTME: Shared config and backend selection flags for all subcommands
package cmd

import (
	"fmt"
	"os"

	"github.com/duotone-audio/duotone-go/pkg/audio/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "duotone",
	Short: "Dual-track instrumental/vocal playback",
	Long: `Duotone plays an instrumental/vocal track pair to up to two output
devices at once: a monitor device carrying the full mix and an optional
broadcast device carrying the instrumental only.

Volumes and device routing come from flags, environment variables, or a
persisted config file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("backend", "", "audio backend (malgo, oto, portaudio)")

	viper.BindPFlag("audio.backend", rootCmd.PersistentFlags().Lookup("backend"))
}

// initConfig points viper at an explicit config file when one was given.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// newBackend creates the audio output backend selected by name.
func newBackend(name string) (output.Backend, error) {
	switch name {
	case "", "malgo":
		backend, err := output.NewMalgo()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
		}
		return backend, nil
	case "oto":
		return output.NewOto(), nil
	case "portaudio":
		backend, err := output.NewPortAudio()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %q (supported: malgo, oto, portaudio)", name)
	}
}
