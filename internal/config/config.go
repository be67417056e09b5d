// Package config provides configuration loading for gencompare.
//
// A configuration describes which generator to run, which specs to feed it,
// and which languages to compare. It is loaded from a YAML file with
// environment variable overrides:
//
//  1. Environment variables (GENCOMPARE_*), including a .env file
//  2. Config file (--config path)
//  3. Built-in defaults
//
// Relative paths in the file are resolved against the file's directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// UseExisting selects which generator runs may be skipped in favor of
// output that is already on disk.
type UseExisting string

const (
	// UseExistingNone runs the generator for both sides.
	UseExistingNone UseExisting = "none"
	// UseExistingOld reuses the old output (a baseline) and regenerates the new side.
	UseExistingOld UseExisting = "old"
	// UseExistingAll runs nothing and compares whatever is on disk.
	UseExistingAll UseExisting = "all"
)

// SupportedLanguages lists the generator languages gencompare can diff.
var SupportedLanguages = []string{"typescript", "python"}

// Config represents a complete gencompare run configuration.
type Config struct {
	Debug     bool             `yaml:"debug" mapstructure:"debug"`
	Generator GeneratorConfig  `yaml:"generator" mapstructure:"generator"`
	Specs     []SpecConfig     `yaml:"specs" mapstructure:"specs"`
	Languages []LanguageConfig `yaml:"languages" mapstructure:"languages"`
	Compare   CompareConfig    `yaml:"compare" mapstructure:"compare"`
	History   HistoryConfig    `yaml:"history" mapstructure:"history"`
}

// GeneratorConfig names the generator executable.
type GeneratorConfig struct {
	Command string   `yaml:"command" mapstructure:"command"` // e.g. "autorest"
	Args    []string `yaml:"args" mapstructure:"args"`       // passed to every invocation
}

// SpecConfig is a group of spec files sharing a root directory.
type SpecConfig struct {
	SpecRootPath string   `yaml:"spec_root_path" mapstructure:"spec_root_path"`
	SpecPaths    []string `yaml:"spec_paths" mapstructure:"spec_paths"` // relative to SpecRootPath when set
}

// LanguageConfig describes how to generate and compare one language.
type LanguageConfig struct {
	Language          string      `yaml:"language" mapstructure:"language"`
	OutputPath        string      `yaml:"output_path" mapstructure:"output_path"`
	OldArgs           []string    `yaml:"old_args" mapstructure:"old_args"`
	NewArgs           []string    `yaml:"new_args" mapstructure:"new_args"`
	UseExistingOutput UseExisting `yaml:"use_existing_output" mapstructure:"use_existing_output"`
}

// CompareConfig tunes the comparison stage.
type CompareConfig struct {
	Parallelism int      `yaml:"parallelism" mapstructure:"parallelism"` // extraction workers, 0 means one per CPU
	Ignore      []string `yaml:"ignore" mapstructure:"ignore"`           // glob patterns excluded from output enumeration
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // empty means ~/.gencompare/history.db
}

// Default returns a configuration with sensible defaults. It has no specs
// or languages and therefore does not validate on its own.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Command: "autorest",
		},
		Compare: CompareConfig{
			Parallelism: 4,
			Ignore: []string{
				"**/node_modules/**",
				"**/__pycache__/**",
				"**/.git/**",
			},
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// LanguageByName returns the configuration for one language.
func (c *Config) LanguageByName(name string) (LanguageConfig, bool) {
	for _, lang := range c.Languages {
		if lang.Language == name {
			return lang, true
		}
	}
	return LanguageConfig{}, false
}

// SpecFiles returns every configured spec with its root, in configuration order.
func (c *Config) SpecFiles() []SpecFile {
	var files []SpecFile
	for _, group := range c.Specs {
		for _, p := range group.SpecPaths {
			files = append(files, SpecFile{RootPath: group.SpecRootPath, Path: p})
		}
	}
	return files
}

// SpecFile is one spec path and the root it is relative to.
type SpecFile struct {
	RootPath string
	Path     string
}

// FullPath returns the spec path joined to its root.
func (s SpecFile) FullPath() string {
	if s.RootPath == "" || filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(s.RootPath, s.Path)
}

// HistoryPath returns the history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".gencompare", "history.db"), nil
}

// resolvePaths makes relative spec roots, spec paths without a root, output
// paths and the history path absolute against baseDir.
func (c *Config) resolvePaths(baseDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	for i := range c.Specs {
		if c.Specs[i].SpecRootPath != "" {
			c.Specs[i].SpecRootPath = abs(c.Specs[i].SpecRootPath)
			continue
		}
		for j := range c.Specs[i].SpecPaths {
			c.Specs[i].SpecPaths[j] = abs(c.Specs[i].SpecPaths[j])
		}
	}
	for i := range c.Languages {
		c.Languages[i].OutputPath = abs(c.Languages[i].OutputPath)
	}
	c.History.Path = abs(c.History.Path)
}
