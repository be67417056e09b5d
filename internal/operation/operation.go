// Package operation runs the compare and baseline workflows: it generates
// output for every configured spec and language, then diffs the results.
package operation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/gencompare/internal/compare"
	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/history"
	"github.com/mvp-joe/gencompare/internal/runner"
)

// ErrDifferencesFound marks a successful comparison that found reportable
// differences. It is not a failure of the tool.
var ErrDifferencesFound = errors.New("differences found")

// Recorder stores the outcome of each compared spec.
type Recorder interface {
	Record(run *history.Run) error
}

// Operation executes workflows for one configuration.
type Operation struct {
	cfg        *config.Config
	runner     runner.Runner
	collector  *runner.OutputCollector
	dispatcher *compare.Dispatcher
	recorder   Recorder
	progress   compare.ProgressReporter
}

// Option configures an Operation.
type Option func(*Operation)

// WithRunner replaces the generator runner.
func WithRunner(r runner.Runner) Option {
	return func(o *Operation) {
		o.runner = r
	}
}

// WithRecorder records every compared spec.
func WithRecorder(r Recorder) Option {
	return func(o *Operation) {
		o.recorder = r
	}
}

// WithProgress reports extraction progress.
func WithProgress(p compare.ProgressReporter) Option {
	return func(o *Operation) {
		o.progress = p
	}
}

// New creates an Operation. The configuration must already be validated.
func New(cfg *config.Config, opts ...Option) (*Operation, error) {
	collector, err := runner.NewOutputCollector(cfg.Compare.Ignore)
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	o := &Operation{
		cfg:       cfg,
		collector: collector,
		progress:  compare.NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = runner.New(collector)
	}
	o.dispatcher = compare.NewDispatcher(compare.DefaultRegistry(),
		compare.WithParallelism(cfg.Compare.Parallelism),
		compare.WithProgress(o.progress),
	)
	return o, nil
}

// SpecResult is the comparison of one spec for one language.
type SpecResult struct {
	Language string
	SpecPath string
	OldPath  string
	NewPath  string
	Result   *diff.Node // nil when the outputs are equivalent
	Stats    diff.Stats
}

// Report collects the results of a compare run.
type Report struct {
	Results []SpecResult
}

// HasDifferences reports whether any spec produced a difference.
func (r *Report) HasDifferences() bool {
	for _, res := range r.Results {
		if res.Result != nil {
			return true
		}
	}
	return false
}

// Err returns ErrDifferencesFound when the report has differences.
func (r *Report) Err() error {
	if r.HasDifferences() {
		return ErrDifferencesFound
	}
	return nil
}

// Compare generates and compares output for every configured spec of the
// selected languages. An empty language selects all configured languages.
// The first fatal error aborts the run.
func (o *Operation) Compare(ctx context.Context, language string) (*Report, error) {
	langs, err := o.languages(language)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, lang := range langs {
		for _, spec := range o.cfg.SpecFiles() {
			res, err := o.compareSpec(ctx, lang, spec)
			if err != nil {
				return nil, err
			}
			report.Results = append(report.Results, res)
		}
	}
	return report, nil
}

// Baseline runs only the old side for every spec so that later comparisons
// can reuse it with use_existing_output: old.
func (o *Operation) Baseline(ctx context.Context, language string) error {
	langs, err := o.languages(language)
	if err != nil {
		return err
	}

	for _, lang := range langs {
		for _, spec := range o.cfg.SpecFiles() {
			oldDir, _ := OutputDirs(lang.OutputPath, spec)
			log.Printf("Generating %s baseline for %s", lang.Language, spec.Path)

			result, err := o.runner.Run(ctx, o.request(lang, spec, lang.OldArgs, oldDir))
			if err != nil {
				return fmt.Errorf("baseline for %s: %w", spec.Path, err)
			}
			log.Printf("Generated %d files in %s", len(result.OutputFiles), result.Elapsed.Round(time.Millisecond))
		}
	}
	return nil
}

func (o *Operation) languages(name string) ([]config.LanguageConfig, error) {
	if name == "" {
		return o.cfg.Languages, nil
	}
	lang, ok := o.cfg.LanguageByName(name)
	if !ok {
		return nil, &config.ConfigurationError{
			Err: fmt.Errorf("%w: %s is not configured", config.ErrUnknownLanguage, name),
		}
	}
	return []config.LanguageConfig{lang}, nil
}

func (o *Operation) compareSpec(ctx context.Context, lang config.LanguageConfig, spec config.SpecFile) (SpecResult, error) {
	started := time.Now()
	oldDir, newDir := OutputDirs(lang.OutputPath, spec)
	res := SpecResult{
		Language: lang.Language,
		SpecPath: spec.Path,
		OldPath:  oldDir,
		NewPath:  newDir,
	}

	oldOutput, newOutput, err := o.outputs(ctx, lang, spec, oldDir, newDir)
	if err == nil {
		res.Result, err = o.dispatcher.CompareOutputFiles(ctx, oldOutput, newOutput)
		res.Stats = diff.Count(res.Result)
	}

	o.record(started, res, err)
	if err != nil {
		return SpecResult{}, fmt.Errorf("%s %s: %w", lang.Language, spec.Path, err)
	}
	return res, nil
}

// outputs produces both output trees according to use_existing_output.
func (o *Operation) outputs(ctx context.Context, lang config.LanguageConfig, spec config.SpecFile, oldDir, newDir string) (runner.OutputResult, runner.OutputResult, error) {
	switch lang.UseExistingOutput {
	case config.UseExistingAll:
		oldOutput, err := o.collector.Collect(oldDir)
		if err != nil {
			return runner.OutputResult{}, runner.OutputResult{}, err
		}
		newOutput, err := o.collector.Collect(newDir)
		if err != nil {
			return runner.OutputResult{}, runner.OutputResult{}, err
		}
		return oldOutput, newOutput, nil

	case config.UseExistingOld:
		oldOutput, err := o.collector.Collect(oldDir)
		if err != nil {
			return runner.OutputResult{}, runner.OutputResult{}, err
		}
		newResult, err := o.runner.Run(ctx, o.request(lang, spec, lang.NewArgs, newDir))
		if err != nil {
			return runner.OutputResult{}, runner.OutputResult{}, err
		}
		log.Printf("Generated new %s output for %s in %s", lang.Language, spec.Path, newResult.Elapsed.Round(time.Millisecond))
		return oldOutput, newResult.OutputResult, nil

	default:
		oldResult, newResult, err := runner.RunPair(ctx, o.runner,
			o.request(lang, spec, lang.OldArgs, oldDir),
			o.request(lang, spec, lang.NewArgs, newDir))
		if err != nil {
			return runner.OutputResult{}, runner.OutputResult{}, err
		}
		log.Printf("Generated %s output for %s in %s (old) and %s (new)", lang.Language, spec.Path,
			oldResult.Elapsed.Round(time.Millisecond), newResult.Elapsed.Round(time.Millisecond))
		return oldResult.OutputResult, newResult.OutputResult, nil
	}
}

func (o *Operation) request(lang config.LanguageConfig, spec config.SpecFile, sideArgs []string, outputPath string) runner.Request {
	return runner.Request{
		Command:    o.cfg.Generator.Command,
		Args:       o.cfg.Generator.Args,
		SideArgs:   sideArgs,
		Language:   lang.Language,
		SpecPath:   spec.FullPath(),
		OutputPath: outputPath,
		Debug:      o.cfg.Debug,
	}
}

func (o *Operation) record(started time.Time, res SpecResult, runErr error) {
	if o.recorder == nil {
		return
	}

	run := &history.Run{
		ID:         history.NewRunID(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Language:   res.Language,
		SpecPath:   res.SpecPath,
		Added:      res.Stats.Added,
		Removed:    res.Stats.Removed,
		Changed:    res.Stats.Changed,
	}
	switch {
	case runErr != nil:
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	case res.Result != nil:
		run.Status = history.StatusDifferent
	default:
		run.Status = history.StatusEquivalent
	}

	if err := o.recorder.Record(run); err != nil {
		log.Printf("Warning: failed to record run history: %v", err)
	}
}

// OutputDirs returns the old and new output directories for a spec:
// <outputPath>/<subpath>/old and /new. The subpath is the spec path relative
// to its root without extension, or the bare file name when there is no root.
func OutputDirs(outputPath string, spec config.SpecFile) (oldDir, newDir string) {
	base := filepath.Join(outputPath, specSubpath(spec))
	return filepath.Join(base, "old"), filepath.Join(base, "new")
}

func specSubpath(spec config.SpecFile) string {
	sub := filepath.Base(spec.Path)
	if spec.RootPath != "" {
		if rel, err := filepath.Rel(spec.RootPath, spec.FullPath()); err == nil && !strings.HasPrefix(rel, "..") {
			sub = rel
		}
	}
	return strings.TrimSuffix(sub, filepath.Ext(sub))
}
