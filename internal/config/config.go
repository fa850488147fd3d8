package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaudRate     = 115200
	DefaultDataDir      = ".flashmon"
	DefaultPollMs       = 100
	DefaultTotalSeconds = 770
	DefaultTickSeconds  = 10
	DefaultMarker       = "Span Gateway 2.0.0 span-gateway"
	DefaultLogLevel     = "info"
	DefaultRefreshHz    = 30
)

// Config holds everything flashmon reads at startup. Values come from an
// optional JSON config file overridden by FLASHMON_* environment variables.
type Config struct {
	BaudRate     int    `json:"baud-rate" mapstructure:"baud-rate"`
	PollMs       int    `json:"poll-ms" mapstructure:"poll-ms"`
	TotalSeconds int    `json:"progress-total-seconds" mapstructure:"progress-total-seconds"`
	TickSeconds  int    `json:"progress-tick-seconds" mapstructure:"progress-tick-seconds"`
	Marker       string `json:"marker" mapstructure:"marker"`
	LogLevel     string `json:"log-level" mapstructure:"log-level"`
	DataDir      string `json:"data-dir" mapstructure:"data-dir"`
	RefreshHz    int    `json:"refresh-hz" mapstructure:"refresh-hz"`
}

// field: default value
var defaults = map[string]interface{}{
	"baud-rate":              DefaultBaudRate,
	"poll-ms":                DefaultPollMs,
	"progress-total-seconds": DefaultTotalSeconds,
	"progress-tick-seconds":  DefaultTickSeconds,
	"marker":                 DefaultMarker,
	"log-level":              DefaultLogLevel,
	"data-dir":               DefaultDataDir,
	"refresh-hz":             DefaultRefreshHz,
}

// Load reads configuration from the given JSON file (optional, pass "" to
// skip) and the environment. Environment variables take precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("flashmon")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for field, value := range defaults {
		v.SetDefault(field, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud-rate must be positive, got %d", c.BaudRate)
	}
	if c.PollMs <= 0 {
		return fmt.Errorf("poll-ms must be positive, got %d", c.PollMs)
	}
	if c.TotalSeconds <= 0 || c.TickSeconds <= 0 {
		return fmt.Errorf("progress timing must be positive, got total=%ds tick=%ds", c.TotalSeconds, c.TickSeconds)
	}
	if c.TickSeconds > c.TotalSeconds {
		return fmt.Errorf("progress tick (%ds) exceeds total duration (%ds)", c.TickSeconds, c.TotalSeconds)
	}
	if c.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	if c.RefreshHz <= 0 {
		return fmt.Errorf("refresh-hz must be positive, got %d", c.RefreshHz)
	}
	return nil
}

// PollInterval returns the serial poll bound as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// ProgressTotal returns the assumed full flash duration.
func (c *Config) ProgressTotal() time.Duration {
	return time.Duration(c.TotalSeconds) * time.Second
}

// ProgressTick returns the progress estimator tick interval.
func (c *Config) ProgressTick() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// RefreshInterval returns the dashboard redraw interval. The elapsed-time
// display only needs a human-perceptible rate; redrawing faster burns cycles
// for nothing.
func (c *Config) RefreshInterval() time.Duration {
	return time.Second / time.Duration(c.RefreshHz)
}
