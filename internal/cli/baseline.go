package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/gencompare/internal/operation"
)

var baselineOpts compareOptions

// baselineCmd represents the baseline command
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Generate the old output only",
	Long: `Baseline runs the generator with the old arguments for every spec and keeps
the output, so later comparisons can reuse it with --use-existing-output=old.

Examples:
  gencompare baseline --config gencompare.yaml --language python
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runBaseline(ctx, viper.GetString("config"), baselineOpts)
	},
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	addGenerationFlags(baselineCmd, &baselineOpts)
}

func runBaseline(ctx context.Context, configPath string, opts compareOptions) error {
	cfg, err := buildConfig(configPath, opts)
	if err != nil {
		return err
	}

	op, err := operation.New(cfg)
	if err != nil {
		return err
	}
	return op.Baseline(ctx, opts.language)
}
