// ABOUTME: Play command running one playback session to completion
// ABOUTME: Binds volume and device flags into the persisted host config
package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/duotone-audio/duotone-go/internal/app"
	"github.com/duotone-audio/duotone-go/internal/hostcfg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play [instrumental] [vocal]",
	Short: "Play an instrumental/vocal track pair",
	Long: `Play loads an instrumental and a vocal track (.wav, .mp3, or .flac) and
plays the mix to the monitor device until the longer track runs out. With
--broadcast a second device carries the instrumental only, so the vocal
never reaches it. Without file arguments a generated demo tone pair is
played.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("requires no arguments or exactly two track files, got %d", len(args))
		}
		return nil
	},
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("monitor", "", "monitor output device id (default: system default)")
	playCmd.Flags().String("broadcast", "", "broadcast output device id (default: none)")
	playCmd.Flags().Float64("instrumental-volume", 0.7, "instrumental gain, 0 to 1.5")
	playCmd.Flags().Float64("vocal-volume", 1.0, "vocal gain, 0 to 1.5")

	viper.BindPFlag("devices.monitor", playCmd.Flags().Lookup("monitor"))
	viper.BindPFlag("devices.broadcast", playCmd.Flags().Lookup("broadcast"))
	viper.BindPFlag("audio.instrumental_volume", playCmd.Flags().Lookup("instrumental-volume"))
	viper.BindPFlag("audio.vocal_volume", playCmd.Flags().Lookup("vocal-volume"))
}

// runPlay loads the host config, builds a session, and runs it until the
// tracks end or a shutdown signal arrives.
func runPlay(cmd *cobra.Command, args []string) error {
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

	config := app.Config{
		Monitor:            cfg.Devices.Monitor,
		Broadcast:          cfg.Devices.Broadcast,
		InstrumentalVolume: float32(cfg.Audio.InstrumentalVolume),
		VocalVolume:        float32(cfg.Audio.VocalVolume),
		Backend:            backend,
	}
	if len(args) == 2 {
		config.InstrumentalPath = args[0]
		config.VocalPath = args[1]
	}

	session, err := app.New(config)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		sig := <-signalChan
		log.Printf("Received %s, stopping", sig)
		session.Stop()
	}()

	return session.Run()
}
