package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/swipelab/rune/pkg/script/errors"
	"github.com/swipelab/rune/pkg/script/script"
)

// ErrNotFound is returned by resolveConfigPath when no default location
// holds a config file.
var ErrNotFound = errors.New("no config file found")

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when none exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. The path is empty when defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), "", nil
	}
	if err != nil {
		return nil, "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BaseDir = baseDir

	cfg.REPL.History = resolvePath(cfg.REPL.History, baseDir, getenv)
	cfg.Logging.Output = resolveOutput(cfg.Logging.Output, baseDir, getenv)
	for name, p := range cfg.Profiles {
		p.Logging.Output = resolveOutput(p.Logging.Output, baseDir, getenv)
		cfg.Profiles[name] = p
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > RUNE_CONFIG env > ./rune.yaml > ~/.config/rune/rune.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("RUNE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("RUNE_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("rune.yaml"); err == nil {
		return "rune.yaml", nil
	}

	if home := homeDir(getenv); home != "" {
		xdgPath := filepath.Join(home, ".config", "rune", "rune.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", ErrNotFound
}

func homeDir(getenv func(string) string) string {
	if home := getenv("HOME"); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}

// resolvePath expands a leading ~ and makes relative paths relative to
// the config file. Empty and "-" are returned unchanged.
func resolvePath(path, baseDir string, getenv func(string) string) string {
	if path == "" || path == "-" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home := homeDir(getenv); home != "" {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

func resolveOutput(output, baseDir string, getenv func(string) string) string {
	if output == "stderr" || output == "stdout" {
		return output
	}
	return resolvePath(output, baseDir, getenv)
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

var identPattern = regexp.MustCompile(`^[A-Za-z_]+$`)

// Validate checks the configuration for errors, reporting all of them at once.
func Validate(cfg *Config) error {
	var errs []string

	errs = append(errs, validateLogging("logging", cfg.Logging, false)...)
	errs = append(errs, validatePrelude("prelude", cfg.Prelude)...)

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	for _, name := range sortedKeys(cfg.Profiles) {
		p := cfg.Profiles[name]
		prefix := "profiles." + name
		errs = append(errs, validateLogging(prefix+".logging", p.Logging, true)...)
		errs = append(errs, validatePrelude(prefix+".prelude", p.Prelude)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateLogging(prefix string, l LoggingConfig, partial bool) []string {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !(partial && l.Level == "") && !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("invalid %s.level: %s (must be debug, info, warn, or error)", prefix, l.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !(partial && l.Format == "") && !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("invalid %s.format: %s (must be json or text)", prefix, l.Format))
	}

	return errs
}

func validatePrelude(prefix string, prelude map[string]any) []string {
	var errs []string

	for _, name := range sortedKeys(prelude) {
		if !identPattern.MatchString(name) {
			errs = append(errs, fmt.Sprintf("%s: %q is not a valid identifier", prefix, name))
			continue
		}
		if isKeyword(name) {
			errs = append(errs, fmt.Sprintf("%s: %q is a reserved word", prefix, name))
			continue
		}
		if _, err := script.ToObject(prelude[name]); err != nil {
			errs = append(errs, fmt.Sprintf("%s.%s: %v", prefix, name, err))
		}
	}

	return errs
}

func isKeyword(name string) bool {
	for _, kw := range perrors.Keywords {
		if kw == name {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyProfile applies a named profile to the configuration.
// Only non-zero values in the profile override the base config.
func ApplyProfile(cfg *Config, name string) error {
	if cfg.Profiles == nil {
		return fmt.Errorf("no profiles defined in config")
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(sortedKeys(cfg.Profiles), ", "))
	}

	if p.Logging.Level != "" {
		cfg.Logging.Level = p.Logging.Level
	}
	if p.Logging.Format != "" {
		cfg.Logging.Format = p.Logging.Format
	}
	if p.Logging.Output != "" {
		cfg.Logging.Output = p.Logging.Output
	}

	if len(p.Prelude) > 0 {
		merged := make(map[string]any, len(cfg.Prelude)+len(p.Prelude))
		for k, v := range cfg.Prelude {
			merged[k] = v
		}
		for k, v := range p.Prelude {
			merged[k] = v
		}
		cfg.Prelude = merged
	}

	return nil
}
