// ABOUTME: Host configuration persisted between sessions
// ABOUTME: Volumes, device selection, sample rate, and backend choice
package hostcfg

import (
	"log"

	"github.com/spf13/viper"

	"github.com/duotone-audio/duotone-go/pkg/duotone"
)

// Config holds the host-side settings the engine consumes read-only.
type Config struct {
	Audio   AudioConfig   `mapstructure:"audio"`
	Devices DevicesConfig `mapstructure:"devices"`
}

// AudioConfig holds playback settings.
type AudioConfig struct {
	InstrumentalVolume float64 `mapstructure:"instrumental_volume"`
	VocalVolume        float64 `mapstructure:"vocal_volume"`
	SampleRate         int     `mapstructure:"sample_rate"`
	Backend            string  `mapstructure:"backend"`
}

// DevicesConfig holds the output device selection. Empty strings mean the
// system default monitor device and no broadcast device.
type DevicesConfig struct {
	Monitor   string `mapstructure:"monitor"`
	Broadcast string `mapstructure:"broadcast"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetDefault("audio.instrumental_volume", float64(duotone.DefaultInstrumentalVolume))
	viper.SetDefault("audio.vocal_volume", float64(duotone.DefaultVocalVolume))
	viper.SetDefault("audio.sample_rate", 44100)
	viper.SetDefault("audio.backend", "malgo")
	viper.SetDefault("devices.monitor", "")
	viper.SetDefault("devices.broadcast", "")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.duotone")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DUOTONE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("No config file found, using defaults")
	} else {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save persists the configuration to the given path.
func (c *Config) Save(path string) error {
	viper.Set("audio.instrumental_volume", c.Audio.InstrumentalVolume)
	viper.Set("audio.vocal_volume", c.Audio.VocalVolume)
	viper.Set("audio.sample_rate", c.Audio.SampleRate)
	viper.Set("audio.backend", c.Audio.Backend)
	viper.Set("devices.monitor", c.Devices.Monitor)
	viper.Set("devices.broadcast", c.Devices.Broadcast)
	return viper.WriteConfigAs(path)
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	maxVolume := float64(duotone.MaxVolume)
	if c.Audio.InstrumentalVolume < 0 || c.Audio.InstrumentalVolume > maxVolume {
		return &ConfigError{Field: "audio.instrumental_volume", Message: "must be between 0 and 1.5"}
	}
	if c.Audio.VocalVolume < 0 || c.Audio.VocalVolume > maxVolume {
		return &ConfigError{Field: "audio.vocal_volume", Message: "must be between 0 and 1.5"}
	}
	if c.Audio.SampleRate <= 0 {
		return &ConfigError{Field: "audio.sample_rate", Message: "must be positive"}
	}
	switch c.Audio.Backend {
	case "malgo", "oto", "portaudio":
	default:
		return &ConfigError{Field: "audio.backend", Message: "must be one of: malgo, oto, portaudio"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
