package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	path string
}

// NewLoader creates a loader for the YAML file at path.
func NewLoader(path string) Loader {
	return &loader{path: path}
}

// Load reads the config file, applies GENCOMPARE_* overrides, resolves
// relative paths and validates the result. Validation failures are returned
// as *ConfigurationError.
func (l *loader) Load() (*Config, error) {
	baseDir := filepath.Dir(l.path)
	if err := loadDotEnv(baseDir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix("GENCOMPARE")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., GENCOMPARE_GENERATOR_COMMAND)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("debug")
	v.BindEnv("generator.command")
	v.BindEnv("compare.parallelism")
	v.BindEnv("history.enabled")
	v.BindEnv("history.path")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	cfg.resolvePaths(absDir)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("generator.command", defaults.Generator.Command)
	v.SetDefault("generator.args", defaults.Generator.Args)
	v.SetDefault("compare.parallelism", defaults.Compare.Parallelism)
	v.SetDefault("compare.ignore", defaults.Compare.Ignore)
	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.path", defaults.History.Path)
}

// loadDotEnv loads .env files from the config directory and the working
// directory. Variables already set in the environment are not overwritten.
func loadDotEnv(dirs ...string) error {
	candidates := make([]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	candidates = append(candidates, ".env")

	seen := make(map[string]bool)
	for _, path := range candidates {
		abs, err := filepath.Abs(path)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true

		if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			return fmt.Errorf("failed to load %s: %w", abs, err)
		}
	}
	return nil
}

// LoadConfig is a convenience function that creates a loader and loads config.
func LoadConfig(path string) (*Config, error) {
	return NewLoader(path).Load()
}
