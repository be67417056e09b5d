package compare

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/parsers"
	"github.com/mvp-joe/gencompare/internal/runner"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

// GeneratedFilesLabel labels the top-level node of a run comparison.
const GeneratedFilesLabel = "Generated Output Files"

// ProgressReporter receives extraction progress callbacks.
type ProgressReporter interface {
	// OnExtractionStart is called once with the number of files to extract.
	OnExtractionStart(totalFiles int)

	// OnFileExtracted is called after each file has been extracted.
	OnFileExtracted(path string)
}

// NoOpProgressReporter discards progress.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnExtractionStart(totalFiles int) {}
func (NoOpProgressReporter) OnFileExtracted(path string)      {}

// Dispatcher compares generated output trees file by file.
type Dispatcher struct {
	registry    *Registry
	parallelism int
	progress    ProgressReporter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithParallelism sets the number of files extracted concurrently.
// Values below 1 select runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(d *Dispatcher) {
		d.parallelism = n
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(d *Dispatcher) {
		d.progress = p
	}
}

// NewDispatcher creates a Dispatcher over registry.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		progress: NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.parallelism < 1 {
		d.parallelism = runtime.NumCPU()
	}
	return d
}

// CompareFile extracts both versions of a file and diffs them. Files with an
// unregistered extension yield nil without error.
func (d *Dispatcher) CompareFile(ctx context.Context, name, oldPath, newPath string) (*diff.Node, error) {
	lang, ok := d.registry.ForPath(name)
	if !ok {
		return nil, nil
	}

	oldFile, err := extract(ctx, lang.Extractor, oldPath)
	if err != nil {
		return nil, err
	}
	newFile, err := extract(ctx, lang.Extractor, newPath)
	if err != nil {
		return nil, err
	}
	return lang.Compare(name, oldFile, newFile), nil
}

// filePair is one relative path present in both output trees.
type filePair struct {
	name    string
	lang    Language
	oldFile *symbols.SourceDetails
	newFile *symbols.SourceDetails
}

// CompareOutputFiles diffs two generator runs. Files present on one side only
// are reported as Removed or Added; files present on both sides are compared
// by the language registered for their extension. Any extraction failure
// aborts the whole comparison.
func (d *Dispatcher) CompareOutputFiles(ctx context.Context, oldOutput, newOutput runner.OutputResult) (*diff.Node, error) {
	pairs := d.matchedPairs(oldOutput.OutputFiles, newOutput.OutputFiles)
	if err := d.extractPairs(ctx, oldOutput.OutputPath, newOutput.OutputPath, pairs); err != nil {
		return nil, err
	}

	extracted := make(map[string]*filePair, len(pairs))
	for i := range pairs {
		extracted[pairs[i].name] = &pairs[i]
	}

	compareFile := func(oldRef, newRef FileRef) *diff.Node {
		pair, ok := extracted[oldRef.Name]
		if !ok {
			return nil
		}
		return pair.lang.Compare(pair.name, pair.oldFile, pair.newFile)
	}

	return diff.CompareItems(GeneratedFilesLabel,
		fileRefs(oldOutput.OutputFiles), fileRefs(newOutput.OutputFiles),
		compareFile, false), nil
}

// matchedPairs returns the registered files present in both lists, in the
// order of newFiles.
func (d *Dispatcher) matchedPairs(oldFiles, newFiles []string) []filePair {
	present := make(map[string]bool, len(oldFiles))
	for _, f := range oldFiles {
		present[f] = true
	}

	var pairs []filePair
	for _, f := range newFiles {
		if !present[f] {
			continue
		}
		lang, ok := d.registry.ForPath(f)
		if !ok {
			continue
		}
		present[f] = false
		pairs = append(pairs, filePair{name: f, lang: lang})
	}
	return pairs
}

func (d *Dispatcher) extractPairs(ctx context.Context, oldRoot, newRoot string, pairs []filePair) error {
	d.progress.OnExtractionStart(len(pairs))

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(d.parallelism)

	for i := range pairs {
		pair := &pairs[i]
		p.Go(func(ctx context.Context) error {
			rel := filepath.FromSlash(pair.name)
			oldFile, err := extract(ctx, pair.lang.Extractor, filepath.Join(oldRoot, rel))
			if err != nil {
				return err
			}
			newFile, err := extract(ctx, pair.lang.Extractor, filepath.Join(newRoot, rel))
			if err != nil {
				return err
			}
			pair.oldFile = oldFile
			pair.newFile = newFile
			d.progress.OnFileExtracted(pair.name)
			return nil
		})
	}

	return p.Wait()
}

func extract(ctx context.Context, e parsers.Extractor, path string) (*symbols.SourceDetails, error) {
	details, err := parsers.ExtractFile(ctx, e, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return details, nil
}

// FileRef names one generated file by its slash-separated relative path.
type FileRef struct {
	Name string
}

func (f FileRef) ItemName() string { return f.Name }

func fileRefs(paths []string) []FileRef {
	refs := make([]FileRef, len(paths))
	for i, p := range paths {
		refs[i] = FileRef{Name: p}
	}
	return refs
}
