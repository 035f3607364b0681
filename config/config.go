// Package config loads host settings: logging, simulation step, window size,
// prefab hot reload and metrics. Gameplay tuning lives in the prefabs.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the optional config file looked up in the config directory.
const FileName = "foodfight"

type Window struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Prefabs struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the resolved host configuration.
type Config struct {
	LogLevel  string  `mapstructure:"logLevel"`
	LogFormat string  `mapstructure:"logFormat"`
	Seed      int64   `mapstructure:"seed"`
	FixedStep float64 `mapstructure:"fixedStep"`
	Window    Window  `mapstructure:"window"`
	Prefabs   Prefabs `mapstructure:"prefabs"`
	Metrics   Metrics `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")
	v.SetDefault("seed", 1)
	v.SetDefault("fixedStep", 1.0/60.0)

	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 720)

	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.watch", false)

	v.SetDefault("metrics.enabled", false)
}

// New returns a viper instance with defaults and FOODFIGHT_ environment
// overrides, e.g. FOODFIGHT_WINDOW_WIDTH.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FOODFIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads foodfight.yaml from configDir when present and resolves the
// result. A missing file is not an error.
func Load(v *viper.Viper, configDir string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if configDir != "" {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FixedStep <= 0 {
		return fmt.Errorf("config: fixedStep must be positive, got %v", c.FixedStep)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
