package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/gencompare/internal/compare"
	"github.com/mvp-joe/gencompare/internal/parsers"
)

// astCmd represents the ast command
var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the syntax tree of a source file",
	Long: `Ast prints the syntax tree of a TypeScript or Python file as an indented
S-expression, with field names, for developing symbol extractors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAST(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(w io.Writer, path string) error {
	lang, ok := compare.DefaultRegistry().ForPath(path)
	if !ok {
		return fmt.Errorf("unsupported file type: %s", path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := lang.Extractor.Parse(path, source)
	if err != nil {
		return err
	}
	defer tree.Close()

	return parsers.WriteAST(w, tree)
}
