// Package config loads rune's YAML configuration.
package config

import "time"

// Config represents the complete rune configuration
type Config struct {
	BaseDir  string                   `yaml:"-"` // Directory containing the config file, for resolving relative paths
	REPL     REPLConfig               `yaml:"repl"`
	Logging  LoggingConfig            `yaml:"logging"`
	Prelude  map[string]any           `yaml:"prelude"` // Extra root constants visible to every script
	Watch    WatchConfig              `yaml:"watch"`
	Profiles map[string]ProfileConfig `yaml:"profiles"` // Named overrides selected with --profile
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"` // History file path, "-" to disable (default: temp dir)
	Banner  bool   `yaml:"banner"`
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// WatchConfig holds --watch settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // Quiet period after the last write before re-running
}

// ProfileConfig holds per-profile overrides.
// All fields are optional - only non-zero values override the base config
type ProfileConfig struct {
	Logging LoggingConfig  `yaml:"logging"`
	Prelude map[string]any `yaml:"prelude"` // Merged over the base prelude
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt: ">> ",
			Banner: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}
