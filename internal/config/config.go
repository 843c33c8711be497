// Package config defines process configuration and its loading.
//
// Conventions:
// - Provide New() returning a Config filled with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors returned by Load match ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Output modes for the command line tool.
const (
	ModeName  = "name"
	ModeFull  = "full"
	ModeFirst = "first"
	ModeLast  = "last"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON.
	LogJSON bool `koanf:"log_json"`

	// Locale filters both name tables; empty means every locale.
	Locale string `koanf:"locale"`

	// DataDir reads tables from this directory instead of the user data dir.
	DataDir string `koanf:"data_dir"`

	// UseEmbedded skips the first-run bootstrap and reads the bundled tables.
	UseEmbedded bool `koanf:"use_embedded"`

	// ConfigDir and UserDataDir override the bootstrap locations.
	ConfigDir   string `koanf:"config_dir"`
	UserDataDir string `koanf:"user_data_dir"`

	// Count is the number of names to generate.
	Count int `koanf:"count"`

	// Gender selects records by their gender tag.
	Gender string `koanf:"gender"`

	// Mode selects what to generate: name, full, first or last.
	Mode string `koanf:"mode"`

	// UseWeights draws names proportionally to their occurrences.
	UseWeights bool `koanf:"use_weights"`

	// MiddleName adds a middle name in full mode.
	MiddleName bool `koanf:"middle_name"`

	// SecondNameProbability and SecondLastNameProbability are percentages
	// used in name mode.
	SecondNameProbability     int `koanf:"second_name_probability"`
	SecondLastNameProbability int `koanf:"second_last_name_probability"`

	// Seed makes output reproducible; 0 picks a time-based seed.
	Seed int64 `koanf:"seed"`

	// MetricsFile, when set, receives the collected metrics in the
	// Prometheus text format after the names are written.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Count:      1,
		Gender:     "F",
		Mode:       ModeName,
		UseWeights: true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case strings.TrimSpace(c.Gender) == "":
		return fmt.Errorf("%w: gender must not be empty", ErrInvalidConfig)
	case !validProbability(c.SecondNameProbability):
		return fmt.Errorf("%w: second_name_probability must be within 0..100, got %d", ErrInvalidConfig, c.SecondNameProbability)
	case !validProbability(c.SecondLastNameProbability):
		return fmt.Errorf("%w: second_last_name_probability must be within 0..100, got %d", ErrInvalidConfig, c.SecondLastNameProbability)
	}
	switch c.Mode {
	case ModeName, ModeFull, ModeFirst, ModeLast:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}

func validProbability(p int) bool {
	return p >= 0 && p <= 100
}
