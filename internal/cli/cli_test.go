package cli

// Test Plan for the command line:
// - exitCode maps nil to 0, differences to a silent 1 and failures to 1 with a message
// - buildConfig from flags validates and resolves output paths
// - buildConfig from flags without a language is a ConfigurationError
// - buildConfig applies flag overrides on top of a config file
// - runCompare reports differences from a fake generator as JSON
// - runBaseline generates only the old side
// - runDiff compares two existing directories in text and JSON form
// - runAST prints the syntax tree and rejects unsupported files
// - runHistory lists recorded runs and handles an empty store
// - The progress reporter draws a bar unless quiet
// - version prints the build information

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/history"
	"github.com/mvp-joe/gencompare/internal/operation"
)

const generatorScript = `#!/bin/sh
out=""
typ="string"
for arg in "$@"; do
  case "$arg" in
    --*.output-folder=*) out="${arg#*=}" ;;
    --type=*) typ="${arg#*=}" ;;
  esac
done
mkdir -p "$out"
printf 'export class Client {\n  run(x: %s): void {}\n}\n' "$typ" > "$out/index.ts"
`

func testdataPath(parts ...string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(append([]string{filepath.Dir(file), "..", "..", "testdata", "code"}, parts...)...)
}

// flagOptions returns compare options that run the fake generator through /bin/sh.
func flagOptions(t *testing.T, oldType, newType string) compareOptions {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "generator.sh")
	require.NoError(t, os.WriteFile(script, []byte(generatorScript), 0755))

	return compareOptions{
		language:     "typescript",
		specRootPath: filepath.Join(dir, "specs"),
		specPaths:    []string{"storage/blob.json"},
		outputPath:   filepath.Join(dir, "out"),
		generator:    "/bin/sh",
		oldArgs:      []string{script, "--type=" + oldType},
		newArgs:      []string{script, "--type=" + newType},
		noHistory:    true,
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	assert.Equal(t, 0, exitCode(nil, &stderr))
	assert.Empty(t, stderr.String())

	// Test: differences exit 1 without printing an error
	assert.Equal(t, 1, exitCode(fmt.Errorf("wrapped: %w", operation.ErrDifferencesFound), &stderr))
	assert.Empty(t, stderr.String())

	assert.Equal(t, 1, exitCode(errors.New("generator exploded"), &stderr))
	assert.Equal(t, "Error: generator exploded\n", stderr.String())
}

func TestBuildConfig_FromFlags(t *testing.T) {
	t.Parallel()

	opts := compareOptions{
		language:          "python",
		specPaths:         []string{"a.json", "b.json"},
		outputPath:        "out",
		useExistingOutput: "old",
		oldArgs:           []string{"--version=1"},
		debug:             true,
	}

	cfg, err := buildConfig("", opts)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "autorest", cfg.Generator.Command)
	require.Len(t, cfg.Languages, 1)
	lang := cfg.Languages[0]
	assert.Equal(t, "python", lang.Language)
	assert.True(t, filepath.IsAbs(lang.OutputPath))
	assert.Equal(t, config.UseExistingOld, lang.UseExistingOutput)
	assert.Equal(t, []string{"--version=1"}, lang.OldArgs)
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.Specs[0].SpecPaths)
}

func TestBuildConfig_MissingLanguage(t *testing.T) {
	t.Parallel()

	_, err := buildConfig("", compareOptions{specPaths: []string{"a.json"}, outputPath: "out"})
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, config.ErrMissingLanguage))
}

func TestBuildConfig_FileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "gencompare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generator:
  command: autorest
specs:
  - spec_root_path: specs
    spec_paths: [a.json]
languages:
  - language: typescript
    output_path: out
`), 0644))

	cfg, err := buildConfig(path, compareOptions{generator: "/usr/local/bin/gen", useExistingOutput: "all"})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/gen", cfg.Generator.Command)
	assert.Equal(t, config.UseExistingAll, cfg.Languages[0].UseExistingOutput)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Languages[0].OutputPath)

	// Test: an invalid override is still validated
	_, err = buildConfig(path, compareOptions{useExistingOutput: "sometimes"})
	assert.True(t, errors.Is(err, config.ErrInvalidUseExisting))
}

func TestRunCompare_JSON(t *testing.T) {
	t.Parallel()

	opts := flagOptions(t, "string", "number")
	opts.json = true

	var stdout, stderr bytes.Buffer
	err := runCompare(context.Background(), &stdout, &stderr, "", opts)
	assert.True(t, errors.Is(err, operation.ErrDifferencesFound))

	var report struct {
		Results []struct {
			Language string `json:"language"`
			SpecPath string `json:"spec_path"`
		} `json:"results"`
		Stats struct {
			Changed int `json:"changed"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, "typescript", report.Results[0].Language)
	assert.Equal(t, "storage/blob.json", report.Results[0].SpecPath)
	assert.Equal(t, 1, report.Stats.Changed)
}

func TestRunCompare_Equivalent(t *testing.T) {
	t.Parallel()

	opts := flagOptions(t, "string", "string")

	var stdout, stderr bytes.Buffer
	require.NoError(t, runCompare(context.Background(), &stdout, &stderr, "", opts))
	assert.Contains(t, stdout.String(), "storage/blob.json (typescript): no differences")
	assert.Contains(t, stdout.String(), "Outputs are equivalent.")
}

func TestRunBaseline(t *testing.T) {
	t.Parallel()

	opts := flagOptions(t, "string", "number")
	require.NoError(t, runBaseline(context.Background(), "", opts))

	base := filepath.Join(opts.outputPath, "storage", "blob")
	assert.FileExists(t, filepath.Join(base, "old", "index.ts"))
	assert.NoDirExists(t, filepath.Join(base, "new"))
}

func TestRunDiff(t *testing.T) {
	t.Parallel()

	oldDir := testdataPath("typescript", "base")
	newDir := testdataPath("typescript", "next")

	var out bytes.Buffer
	err := runDiff(context.Background(), &out, config.Default(), oldDir, newDir, false)
	assert.True(t, errors.Is(err, operation.ErrDifferencesFound))
	assert.Contains(t, out.String(), "• Generated Output Files\n  ~ index.ts\n")
	assert.Contains(t, out.String(), "- removedMethod")

	// Test: identical directories are equivalent
	out.Reset()
	require.NoError(t, runDiff(context.Background(), &out, config.Default(), oldDir, oldDir, false))
	assert.Equal(t, "\nOutputs are equivalent.\n", out.String())
}

func TestRunDiff_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runDiff(context.Background(), &out, config.Default(),
		testdataPath("python", "old"), testdataPath("python", "new"), true)
	assert.True(t, errors.Is(err, operation.ErrDifferencesFound))

	var node map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &node))
	assert.Equal(t, "Generated Output Files", node["label"])
	assert.Equal(t, "outline", node["kind"])
}

func TestRunAST(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, runAST(&out, testdataPath("typescript", "base", "index.ts")))
	assert.Contains(t, out.String(), "(program\n")
	assert.Contains(t, out.String(), "(class_declaration")

	err := runAST(&out, "README.md")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestRunHistory(t *testing.T) {
	t.Parallel()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	require.NoError(t, runHistory(&out, store, 10))
	assert.Equal(t, "No runs recorded.\n", out.String())

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(&history.Run{
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Language:   "python",
		SpecPath:   "storage/blob.json",
		Status:     history.StatusDifferent,
		Added:      1,
		Removed:    2,
		Changed:    3,
	}))

	out.Reset()
	require.NoError(t, runHistory(&out, store, 10))
	assert.Contains(t, out.String(), "STARTED")
	assert.Regexp(t, `python\s+storage/blob\.json\s+different\s+1\s+2\s+3\s+1\.5s`, out.String())
}

func TestCLIProgressReporter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	quiet := NewCLIProgressReporter(&out, true)
	quiet.OnExtractionStart(2)
	quiet.OnFileExtracted("a.ts")
	assert.Empty(t, out.String())

	// Test: a zero total draws nothing
	loud := NewCLIProgressReporter(&out, false)
	loud.OnExtractionStart(0)
	loud.OnFileExtracted("a.ts")
	assert.Empty(t, out.String())

	loud.OnExtractionStart(2)
	loud.OnFileExtracted("a.ts")
	loud.OnFileExtracted("b.ts")
	assert.Contains(t, out.String(), "Extracting symbols")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "gencompare dev\nGit commit: none\nBuild date: unknown\n", out.String())
}
