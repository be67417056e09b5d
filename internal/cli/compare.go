package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/history"
	"github.com/mvp-joe/gencompare/internal/operation"
	"github.com/mvp-joe/gencompare/internal/printer"
	"github.com/mvp-joe/gencompare/internal/watcher"
)

// compareOptions holds the flags of the compare and baseline commands.
type compareOptions struct {
	language          string
	specPaths         []string
	specRootPath      string
	outputPath        string
	useExistingOutput string
	oldArgs           []string
	newArgs           []string
	generator         string
	debug             bool
	json              bool
	noHistory         bool
	watch             bool
}

var compareOpts compareOptions

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Generate code twice and compare the outputs",
	Long: `Compare runs the generator once with the old arguments and once with the
new arguments for every spec, then reports structural differences between the
two output trees.

Examples:
  # Compare using a configuration file
  gencompare compare --config gencompare.yaml

  # Compare a single spec from flags
  gencompare compare --language typescript \
    --spec-path specs/storage.json --output-path ./out \
    --old-arg=--version=3.0.6187 --new-arg=--use=./local-generator

  # Re-run whenever a spec file changes
  gencompare compare --config gencompare.yaml --watch
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runCompare(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), viper.GetString("config"), compareOpts)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addGenerationFlags(compareCmd, &compareOpts)
	compareCmd.Flags().BoolVar(&compareOpts.json, "json", false, "Output the report as JSON")
	compareCmd.Flags().BoolVar(&compareOpts.noHistory, "no-history", false, "Do not record this run in the history database")
	compareCmd.Flags().BoolVarP(&compareOpts.watch, "watch", "w", false, "Re-run the comparison when a spec file changes")
}

// addGenerationFlags registers the flags shared by compare and baseline.
func addGenerationFlags(cmd *cobra.Command, opts *compareOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.language, "language", "l", "", "Generator language (typescript, python); filters the configured languages")
	flags.StringArrayVar(&opts.specPaths, "spec-path", nil, "Spec file to generate from (repeatable)")
	flags.StringVar(&opts.specRootPath, "spec-root-path", "", "Root directory of the spec paths")
	flags.StringVar(&opts.outputPath, "output-path", "", "Directory that receives the old and new output")
	flags.StringVar(&opts.useExistingOutput, "use-existing-output", "", "Reuse existing output: none, old or all")
	flags.StringArrayVar(&opts.oldArgs, "old-arg", nil, "Generator argument for the old run (repeatable)")
	flags.StringArrayVar(&opts.newArgs, "new-arg", nil, "Generator argument for the new run (repeatable)")
	flags.StringVar(&opts.generator, "generator", "", "Generator executable")
	flags.BoolVar(&opts.debug, "debug", false, "Pass --debug to the generator and log its invocation")
}

// buildConfig loads the configuration file when one is given and applies
// the flags on top of it. Without a file the flags describe a single
// language and spec set.
func buildConfig(configPath string, opts compareOptions) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if opts.generator != "" {
			cfg.Generator.Command = opts.generator
		}
		if opts.debug {
			cfg.Debug = true
		}
		if opts.useExistingOutput != "" {
			for i := range cfg.Languages {
				cfg.Languages[i].UseExistingOutput = config.UseExisting(opts.useExistingOutput)
			}
		}
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := config.Default()
	cfg.Debug = opts.debug
	if opts.generator != "" {
		cfg.Generator.Command = opts.generator
	}
	cfg.Specs = []config.SpecConfig{{
		SpecRootPath: absPath(opts.specRootPath),
		SpecPaths:    opts.specPaths,
	}}
	cfg.Languages = []config.LanguageConfig{{
		Language:          opts.language,
		OutputPath:        absPath(opts.outputPath),
		OldArgs:           opts.oldArgs,
		NewArgs:           opts.newArgs,
		UseExistingOutput: config.UseExisting(opts.useExistingOutput),
	}}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// openHistory opens the run history store unless it is disabled.
func openHistory(cfg *config.Config, disabled bool) (*history.Store, error) {
	if disabled || !cfg.History.Enabled {
		return nil, nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

func runCompare(ctx context.Context, stdout, stderr io.Writer, configPath string, opts compareOptions) error {
	cfg, err := buildConfig(configPath, opts)
	if err != nil {
		return err
	}

	store, err := openHistory(cfg, opts.noHistory)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	opOpts := []operation.Option{
		operation.WithProgress(NewCLIProgressReporter(stderr, opts.json || opts.watch)),
	}
	if store != nil {
		defer store.Close()
		opOpts = append(opOpts, operation.WithRecorder(store))
	}

	op, err := operation.New(cfg, opOpts...)
	if err != nil {
		return err
	}

	if opts.watch {
		return watchCompare(ctx, stdout, cfg, op, opts)
	}
	return compareOnce(ctx, stdout, op, opts)
}

// compareOnce runs one comparison and prints its report. Found differences
// are returned as operation.ErrDifferencesFound.
func compareOnce(ctx context.Context, w io.Writer, op *operation.Operation, opts compareOptions) error {
	report, err := op.Compare(ctx, opts.language)
	if err != nil {
		return err
	}
	if err := writeReport(w, report, opts.json); err != nil {
		return err
	}
	return report.Err()
}

func writeReport(w io.Writer, report *operation.Report, asJSON bool) error {
	if asJSON {
		return printer.WriteJSON(w, report)
	}
	return newPrinter(w).PrintReport(report)
}

// watchCompare compares once, then again after every batch of spec file
// changes, until ctx is cancelled.
func watchCompare(ctx context.Context, w io.Writer, cfg *config.Config, op *operation.Operation, opts compareOptions) error {
	var paths []string
	for _, spec := range cfg.SpecFiles() {
		paths = append(paths, spec.FullPath())
	}

	fw, err := watcher.NewFileWatcher(paths)
	if err != nil {
		return fmt.Errorf("failed to watch spec files: %w", err)
	}
	defer fw.Stop()

	run := func() {
		if err := compareOnce(ctx, w, op, opts); err != nil && !errors.Is(err, operation.ErrDifferencesFound) {
			log.Printf("Comparison failed: %v", err)
		}
	}
	run()

	err = fw.Start(ctx, func(files []string) {
		fw.Pause()
		defer fw.Resume()
		log.Printf("%d spec file(s) changed, comparing again...", len(files))
		run()
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Println("Watching spec files for changes (Ctrl+C to stop)")
	<-ctx.Done()
	log.Println("Watch mode stopped")
	return nil
}
