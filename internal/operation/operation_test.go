package operation

// Test Plan for compare and baseline workflows:
// - Compare reports differences when old and new generator output differ
// - Compare reports no differences and Err() is nil for identical output
// - use_existing_output: all compares existing directories without running
// - use_existing_output: old reuses the baseline and runs only the new side
// - Baseline runs only the old side into <output>/<spec>/old
// - An unknown language filter is a ConfigurationError
// - A failing generator aborts the run and is recorded as failed
// - OutputDirs derives the subpath from the spec root

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/history"
	"github.com/mvp-joe/gencompare/internal/runner"
)

const generatorScript = `#!/bin/sh
out=""
typ="string"
for arg in "$@"; do
  case "$arg" in
    --*.output-folder=*) out="${arg#*=}" ;;
    --type=*) typ="${arg#*=}" ;;
    --fail) echo "bad spec" >&2; exit 2 ;;
  esac
done
mkdir -p "$out/src"
printf 'export class Client {\n  run(x: %s): void {}\n}\n' "$typ" > "$out/src/index.ts"
`

type memoryRecorder struct {
	mu   sync.Mutex
	runs []*history.Run
}

func (m *memoryRecorder) Record(run *history.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// countingRunner counts generator invocations per output directory.
type countingRunner struct {
	mu    sync.Mutex
	inner runner.Runner
	dirs  []string
}

func (c *countingRunner) Run(ctx context.Context, req runner.Request) (*runner.Result, error) {
	c.mu.Lock()
	c.dirs = append(c.dirs, req.OutputPath)
	c.mu.Unlock()
	return c.inner.Run(ctx, req)
}

func testConfig(t *testing.T, oldArgs, newArgs []string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "generator.sh")
	require.NoError(t, os.WriteFile(script, []byte(generatorScript), 0755))

	cfg := config.Default()
	cfg.Generator = config.GeneratorConfig{Command: "/bin/sh", Args: []string{script}}
	cfg.Specs = []config.SpecConfig{{SpecRootPath: filepath.Join(dir, "specs"), SpecPaths: []string{"storage/blob.json"}}}
	cfg.Languages = []config.LanguageConfig{{
		Language:   "typescript",
		OutputPath: filepath.Join(dir, "out"),
		OldArgs:    oldArgs,
		NewArgs:    newArgs,
	}}
	cfg.History.Enabled = false
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func newOperation(t *testing.T, cfg *config.Config, opts ...Option) (*Operation, *countingRunner) {
	t.Helper()
	collector, err := runner.NewOutputCollector(nil)
	require.NoError(t, err)
	counting := &countingRunner{inner: runner.New(collector)}

	op, err := New(cfg, append([]Option{WithRunner(counting)}, opts...)...)
	require.NoError(t, err)
	return op, counting
}

func TestCompare_Differences(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, []string{"--type=string"}, []string{"--type=number"})
	recorder := &memoryRecorder{}
	op, counting := newOperation(t, cfg, WithRecorder(recorder))

	report, err := op.Compare(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Equal(t, "typescript", res.Language)
	assert.Equal(t, "storage/blob.json", res.SpecPath)
	assert.Equal(t, filepath.Join(cfg.Languages[0].OutputPath, "storage", "blob", "old"), res.OldPath)
	require.NotNil(t, res.Result)
	assert.Equal(t, 1, res.Stats.Changed)
	assert.True(t, errors.Is(report.Err(), ErrDifferencesFound))
	assert.Len(t, counting.dirs, 2)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, history.StatusDifferent, recorder.runs[0].Status)
	assert.Equal(t, 1, recorder.runs[0].Changed)
}

func TestCompare_NoDifferences(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, nil, nil)
	op, _ := newOperation(t, cfg)

	report, err := op.Compare(context.Background(), "typescript")
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Nil(t, report.Results[0].Result)
	assert.False(t, report.HasDifferences())
	assert.NoError(t, report.Err())
}

func TestCompare_UseExistingAll(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, nil, nil)
	cfg.Languages[0].UseExistingOutput = config.UseExistingAll

	spec := cfg.SpecFiles()[0]
	oldDir, newDir := OutputDirs(cfg.Languages[0].OutputPath, spec)
	require.NoError(t, os.MkdirAll(oldDir, 0755))
	require.NoError(t, os.MkdirAll(newDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "models.py"), []byte("class A:\n    pass\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(newDir, "models.py"), []byte("class B:\n    pass\n"), 0644))

	op, counting := newOperation(t, cfg)
	report, err := op.Compare(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, counting.dirs)
	assert.Equal(t, 1, report.Results[0].Stats.Added)
	assert.Equal(t, 1, report.Results[0].Stats.Removed)
}

func TestBaselineThenCompareWithOld(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, []string{"--type=string"}, []string{"--type=number"})
	op, counting := newOperation(t, cfg)

	require.NoError(t, op.Baseline(context.Background(), ""))
	oldDir, newDir := OutputDirs(cfg.Languages[0].OutputPath, cfg.SpecFiles()[0])
	assert.Equal(t, []string{oldDir}, counting.dirs)
	assert.FileExists(t, filepath.Join(oldDir, "src", "index.ts"))
	assert.NoDirExists(t, newDir)

	cfg.Languages[0].UseExistingOutput = config.UseExistingOld
	op, counting = newOperation(t, cfg)
	report, err := op.Compare(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{newDir}, counting.dirs)
	assert.True(t, report.HasDifferences())
}

func TestCompare_UnknownLanguage(t *testing.T) {
	t.Parallel()

	op, _ := newOperation(t, testConfig(t, nil, nil))

	_, err := op.Compare(context.Background(), "python")
	require.Error(t, err)
	var cfgErr *config.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, config.ErrUnknownLanguage)

	assert.ErrorIs(t, op.Baseline(context.Background(), "java"), config.ErrUnknownLanguage)
}

func TestCompare_GeneratorFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, nil, []string{"--fail"})
	recorder := &memoryRecorder{}
	op, _ := newOperation(t, cfg, WithRecorder(recorder))

	report, err := op.Compare(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, report)

	var procErr *runner.GeneratorProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, 2, procErr.ExitCode)
	assert.Contains(t, procErr.Output, "bad spec")

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, history.StatusFailed, recorder.runs[0].Status)
	assert.Contains(t, recorder.runs[0].Error, "bad spec")
}

func TestOutputDirs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec config.SpecFile
		want string
	}{
		{"relative to root", config.SpecFile{RootPath: "/specs", Path: "storage/blob.json"}, "/out/storage/blob"},
		{"no root", config.SpecFile{Path: "/elsewhere/keyvault.yaml"}, "/out/keyvault"},
		{"outside root", config.SpecFile{RootPath: "/specs", Path: "/other/api.json"}, "/out/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			oldDir, newDir := OutputDirs("/out", tt.spec)
			assert.Equal(t, filepath.Join(tt.want, "old"), oldDir)
			assert.Equal(t, filepath.Join(tt.want, "new"), newDir)
		})
	}
}
