package parsers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// WriteAST writes the tree as an S-expression with one named node per line,
// indented two spaces per depth. A field name is printed in front of the
// node it labels, and tokens inserted by error recovery print as MISSING.
func WriteAST(w io.Writer, tree *Tree) error {
	cursor := tree.tree.RootNode().Walk()
	defer cursor.Close()

	var lines []string
	writeASTNode(cursor, 0, &lines)

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// writeASTNode appends the cursor's node and its descendants. Anonymous
// nodes are skipped but their children are still visited at the same depth.
func writeASTNode(cursor *sitter.TreeCursor, depth int, lines *[]string) {
	node := cursor.Node()
	visible := node.IsNamed() || node.IsMissing()

	childDepth := depth
	if visible {
		var line strings.Builder
		line.WriteString(strings.Repeat("  ", depth))
		if field := cursor.FieldName(); field != "" {
			line.WriteString(field + ": ")
		}
		line.WriteString("(")
		switch {
		case node.IsMissing() && node.IsNamed():
			line.WriteString("MISSING " + node.Kind())
		case node.IsMissing():
			line.WriteString("MISSING " + strconv.Quote(node.Kind()))
		default:
			line.WriteString(node.Kind())
		}
		*lines = append(*lines, line.String())
		childDepth = depth + 1
	}

	if cursor.GotoFirstChild() {
		for {
			writeASTNode(cursor, childDepth, lines)
			if !cursor.GotoNextSibling() {
				break
			}
		}
		cursor.GotoParent()
	}

	if visible {
		(*lines)[len(*lines)-1] += ")"
	}
}
