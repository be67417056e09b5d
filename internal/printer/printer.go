// Package printer renders diff reports for people and machines.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"

	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/operation"
)

type visual struct {
	prefix string
	color  string
}

var visuals = map[diff.Kind]visual{
	diff.Outline: {prefix: "•"},
	diff.Added:   {prefix: "+", color: "[light_green]"},
	diff.Removed: {prefix: "-", color: "[light_red]"},
	diff.Changed: {prefix: "~", color: "[light_yellow]"},
}

// Printer writes reports as indented text.
type Printer struct {
	w        io.Writer
	colorize colorstring.Colorize
}

// New returns a text Printer. Color is used only when color is true.
func New(w io.Writer, color bool) *Printer {
	return &Printer{
		w: w,
		colorize: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
		},
	}
}

// ColorEnabled reports whether f is a terminal that should receive color.
// NO_COLOR in the environment always disables it.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PrintNode writes n and its descendants, two spaces of indent per depth.
func (p *Printer) PrintNode(n *diff.Node) error {
	var err error
	diff.Walk(n, func(node *diff.Node, depth int) {
		if err != nil {
			return
		}
		v := visuals[node.Kind]
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), v.prefix, node.Label)
		if v.color != "" {
			line = p.paint(v.color, line)
		}
		_, err = fmt.Fprintln(p.w, line)
	})
	return err
}

// PrintReport writes each spec's differences followed by a summary line.
func (p *Printer) PrintReport(report *operation.Report) error {
	var total diff.Stats
	for _, res := range report.Results {
		total.Added += res.Stats.Added
		total.Removed += res.Stats.Removed
		total.Changed += res.Stats.Changed

		if res.Result == nil {
			if _, err := fmt.Fprintf(p.w, "%s (%s): no differences\n", res.SpecPath, res.Language); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(p.w, "%s (%s):\n", res.SpecPath, res.Language); err != nil {
			return err
		}
		if err := p.PrintNode(res.Result); err != nil {
			return err
		}
	}
	return p.PrintSummary(total)
}

// PrintSummary writes the counts of added, removed and changed entries.
func (p *Printer) PrintSummary(stats diff.Stats) error {
	if stats.Empty() {
		_, err := fmt.Fprintln(p.w, "\nOutputs are equivalent.")
		return err
	}
	summary := fmt.Sprintf("\n%d added, %d removed, %d changed", stats.Added, stats.Removed, stats.Changed)
	_, err := fmt.Fprintln(p.w, p.paint("[bold]", summary))
	return err
}

// paint wraps text in a color code. Labels are never passed through the
// color parser, so type expressions such as "string[]" print verbatim.
func (p *Printer) paint(code, text string) string {
	start := p.colorize.Color(code)
	if start == "" {
		return text
	}
	return start + text + p.colorize.Color("[reset]")
}

// jsonReport is the machine-readable form of a Report.
type jsonReport struct {
	Results []jsonResult `json:"results"`
	Stats   diff.Stats   `json:"stats"`
}

type jsonResult struct {
	Language string     `json:"language"`
	SpecPath string     `json:"spec_path"`
	OldPath  string     `json:"old_path"`
	NewPath  string     `json:"new_path"`
	Stats    diff.Stats `json:"stats"`
	Result   *diff.Node `json:"result"`
}

// WriteJSON writes report as indented JSON.
func WriteJSON(w io.Writer, report *operation.Report) error {
	out := jsonReport{Results: []jsonResult{}}
	for _, res := range report.Results {
		out.Results = append(out.Results, jsonResult{
			Language: res.Language,
			SpecPath: res.SpecPath,
			OldPath:  res.OldPath,
			NewPath:  res.NewPath,
			Stats:    res.Stats,
			Result:   res.Result,
		})
		out.Stats.Added += res.Stats.Added
		out.Stats.Removed += res.Stats.Removed
		out.Stats.Changed += res.Stats.Changed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
