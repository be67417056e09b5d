// Package cli implements the gencompare command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/gencompare/internal/config"
	"github.com/mvp-joe/gencompare/internal/operation"
	"github.com/mvp-joe/gencompare/internal/printer"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gencompare",
	Short: "Compare the output of two code generator runs",
	Long: `gencompare runs a code generator twice (for example an old and a new
version) and reports structural differences between the generated sources:
removed or added classes, changed signatures, reordered parameters and changed
types. Formatting, comments and file ordering are ignored.

Exit status is 0 when the outputs are equivalent and 1 when differences were
found or the run failed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !viper.GetBool("verbose") {
			log.SetFlags(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute(), os.Stderr))
}

// exitCode maps a command error to the process exit code. Found differences
// exit 1 without an error message.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, operation.ErrDifferencesFound) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// newPrinter returns a text printer for w, colored only for terminals.
func newPrinter(w io.Writer) *printer.Printer {
	color := false
	if f, ok := w.(*os.File); ok && !viper.GetBool("no-color") {
		color = printer.ColorEnabled(f)
	}
	return printer.New(w, color)
}

// loadConfigFile loads the --config file, or returns defaults when no file
// was given.
func loadConfigFile() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}
