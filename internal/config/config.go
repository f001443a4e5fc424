// Package config loads the optional ambient configuration file that tunes
// the two knobs the core leaves as constants: the daemon poll interval and
// the log level. Absence of the file changes nothing.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ksaiproc/ksaiproc/internal/paths"
)

// Config holds the ambient, operator-tunable knobs.
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// SchedulerConfig tunes the daemon's poll loop.
type SchedulerConfig struct {
	PollIntervalMS int `mapstructure:"poll_interval_ms"`
}

// LogConfig sets the level of the CLI's zerolog logger (built in appctx).
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PollInterval returns the configured poll interval, defaulting to 1 second.
func (c Config) PollInterval() time.Duration {
	if c.Scheduler.PollIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Scheduler.PollIntervalMS) * time.Millisecond
}

// LevelOrDefault returns the configured log level, defaulting to "info".
func (c Config) LevelOrDefault() string {
	if strings.TrimSpace(c.Log.Level) == "" {
		return "info"
	}
	return c.Log.Level
}

// Load reads ~/.ksaiproc/config.yaml (or the path named by KSAIPROC_CONFIG),
// returning zero-value defaults if no file is present - this is additive
// configuration, never required.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if explicit := strings.TrimSpace(os.Getenv("KSAIPROC_CONFIG")); explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(paths.StateDir())
	}
	v.SetEnvPrefix("KSAIPROC")
	v.AutomaticEnv()

	cfg := Config{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
