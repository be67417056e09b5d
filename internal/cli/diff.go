package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/gencompare/internal/compare"
	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/operation"
	"github.com/mvp-joe/gencompare/internal/runner"
)

var diffJSON bool

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff OLD_DIR NEW_DIR",
	Short: "Compare two existing output directories",
	Long: `Diff compares two directories of generated code without running the
generator. Ignore patterns and parallelism come from --config when given.

Examples:
  gencompare diff ./out/old ./out/new
  gencompare diff ./out/old ./out/new --json
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFile()
		if err != nil {
			return err
		}
		return runDiff(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1], diffJSON)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output the diff as JSON")
}

func runDiff(ctx context.Context, w io.Writer, cfg *config.Config, oldDir, newDir string, asJSON bool) error {
	collector, err := runner.NewOutputCollector(cfg.Compare.Ignore)
	if err != nil {
		return &config.ConfigurationError{Err: err}
	}

	oldOutput, err := collector.Collect(oldDir)
	if err != nil {
		return err
	}
	newOutput, err := collector.Collect(newDir)
	if err != nil {
		return err
	}

	dispatcher := compare.NewDispatcher(compare.DefaultRegistry(),
		compare.WithParallelism(cfg.Compare.Parallelism),
	)
	result, err := dispatcher.CompareOutputFiles(ctx, oldOutput, newOutput)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := diff.MarshalIndent(result)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	} else {
		p := newPrinter(w)
		if err := p.PrintNode(result); err != nil {
			return err
		}
		if err := p.PrintSummary(diff.Count(result)); err != nil {
			return err
		}
	}

	if result != nil {
		return operation.ErrDifferencesFound
	}
	return nil
}
