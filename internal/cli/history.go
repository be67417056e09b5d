package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/gencompare/internal/history"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent comparison runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFile()
		if err != nil {
			return err
		}
		path, err := cfg.HistoryPath()
		if err != nil {
			return err
		}
		store, err := history.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		return runHistory(cmd.OutOrStdout(), store, historyLimit)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
}

func runHistory(w io.Writer, store *history.Store, limit int) error {
	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tLANGUAGE\tSPEC\tSTATUS\tADDED\tREMOVED\tCHANGED\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Language,
			run.SpecPath,
			run.Status,
			run.Added,
			run.Removed,
			run.Changed,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
		)
	}
	return tw.Flush()
}
