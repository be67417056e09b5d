package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrMissingLanguage indicates no language, or a language entry without a name
	ErrMissingLanguage = errors.New("missing language")

	// ErrUnknownLanguage indicates a language gencompare cannot compare
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrMissingOutputPath indicates a language without an output directory
	ErrMissingOutputPath = errors.New("missing output path")

	// ErrMissingSpecPath indicates no spec to generate from
	ErrMissingSpecPath = errors.New("missing spec path")

	// ErrInvalidUseExisting indicates an unsupported use_existing_output value
	ErrInvalidUseExisting = errors.New("invalid use_existing_output")

	// ErrInvalidParallelism indicates a negative worker count
	ErrInvalidParallelism = errors.New("invalid parallelism")

	// ErrMissingGenerator indicates no generator command when one must run
	ErrMissingGenerator = errors.New("missing generator command")
)

// ConfigurationError reports run parameters that are missing or malformed.
// It is returned before any generation starts.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateSpecs(cfg.Specs); err != nil {
		errs = append(errs, err)
	}

	if err := validateLanguages(cfg.Languages); err != nil {
		errs = append(errs, err)
	}

	if needsGenerator(cfg) && strings.TrimSpace(cfg.Generator.Command) == "" {
		errs = append(errs, fmt.Errorf("%w: generator.command is required", ErrMissingGenerator))
	}

	if cfg.Compare.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("%w: parallelism cannot be negative, got %d", ErrInvalidParallelism, cfg.Compare.Parallelism))
	}

	if len(errs) > 0 {
		return &ConfigurationError{Err: joinErrors(errs)}
	}

	return nil
}

func validateSpecs(specs []SpecConfig) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: at least one spec is required", ErrMissingSpecPath)
	}

	var errs []error
	for i, group := range specs {
		if len(group.SpecPaths) == 0 {
			errs = append(errs, fmt.Errorf("%w: specs[%d] has no spec_paths", ErrMissingSpecPath, i))
		}
		for j, p := range group.SpecPaths {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Errorf("%w: specs[%d].spec_paths[%d] is empty", ErrMissingSpecPath, i, j))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLanguages(langs []LanguageConfig) error {
	if len(langs) == 0 {
		return fmt.Errorf("%w: at least one language is required", ErrMissingLanguage)
	}

	var errs []error
	for i, lang := range langs {
		switch {
		case strings.TrimSpace(lang.Language) == "":
			errs = append(errs, fmt.Errorf("%w: languages[%d] has no name", ErrMissingLanguage, i))
		case !slices.Contains(SupportedLanguages, lang.Language):
			errs = append(errs, fmt.Errorf("%w: %s (valid: %s)", ErrUnknownLanguage, lang.Language, strings.Join(SupportedLanguages, ", ")))
		}

		if strings.TrimSpace(lang.OutputPath) == "" {
			errs = append(errs, fmt.Errorf("%w: languages[%d].output_path is required", ErrMissingOutputPath, i))
		}

		switch lang.UseExistingOutput {
		case "", UseExistingNone, UseExistingOld, UseExistingAll:
		default:
			errs = append(errs, fmt.Errorf("%w: must be 'none', 'old' or 'all', got '%s'", ErrInvalidUseExisting, lang.UseExistingOutput))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func needsGenerator(cfg *Config) bool {
	for _, lang := range cfg.Languages {
		if lang.UseExistingOutput != UseExistingAll {
			return true
		}
	}
	return false
}

// joinedError keeps every validation error reachable through errors.Is.
type joinedError struct {
	errs []error
}

func (e *joinedError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *joinedError) Unwrap() []error {
	return e.errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &joinedError{errs: errs}
}
