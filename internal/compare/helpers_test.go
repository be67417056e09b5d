package compare

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mvp-joe/gencompare/internal/diff"
)

var glyphs = map[diff.Kind]string{
	diff.Outline: "•",
	diff.Added:   "+",
	diff.Removed: "-",
	diff.Changed: "~",
}

// outline renders a report as one "<indent><glyph> <label>" line per node.
func outline(n *diff.Node) []string {
	var lines []string
	diff.Walk(n, func(node *diff.Node, depth int) {
		lines = append(lines, strings.Repeat("  ", depth)+glyphs[node.Kind]+" "+node.Label)
	})
	return lines
}

// testdataPath resolves a path under the repository testdata directory.
func testdataPath(parts ...string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..", "testdata", "code")
	return filepath.Join(append([]string{root}, parts...)...)
}
