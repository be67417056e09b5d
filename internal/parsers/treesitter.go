package parsers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mvp-joe/gencompare/internal/symbols"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// Language returns the language name handled by the parser.
func (p *treeSitterParser) Language() string {
	return p.lang
}

// Parse parses source into a Tree. The caller must Close the returned tree.
func (p *treeSitterParser) Parse(path string, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set %s language: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", p.lang, path)
	}

	return &Tree{tree: tree, source: source, path: path}, nil
}

// Tree is a parsed source file. Nodes obtained from it are only valid until
// Close is called.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	path   string
}

// Root returns the root node of the tree.
func (t *Tree) Root() Node {
	return wrap(t.tree.RootNode(), t.source)
}

// Path returns the path the tree was parsed from.
func (t *Tree) Path() string {
	return t.path
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Node is a read-only view of a syntax node. The zero Node is absent: every
// accessor on it returns an absent or empty result.
type Node struct {
	node   *sitter.Node
	source []byte
}

func wrap(n *sitter.Node, source []byte) Node {
	if n == nil {
		return Node{}
	}
	return Node{node: n, source: source}
}

// Exists reports whether the node is present.
func (n Node) Exists() bool {
	return n.node != nil
}

// Kind returns the grammar kind of the node, or "" when absent.
func (n Node) Kind() string {
	if n.node == nil {
		return ""
	}
	return n.node.Kind()
}

// Text returns the raw source text of the node.
func (n Node) Text() string {
	if n.node == nil {
		return ""
	}
	return string(n.source[n.node.StartByte():n.node.EndByte()])
}

// Line returns the 1-based start line of the node, or 0 when absent.
func (n Node) Line() int {
	if n.node == nil {
		return 0
	}
	return int(n.node.StartPosition().Row) + 1
}

// HasError reports whether the subtree contains syntax errors.
func (n Node) HasError() bool {
	return n.node != nil && n.node.HasError()
}

// Field returns the child holding the given semantic role ("name", "type",
// "value", "body", ...).
func (n Node) Field(role string) (Node, bool) {
	if n.node == nil {
		return Node{}, false
	}
	child := wrap(n.node.ChildByFieldName(role), n.source)
	return child, child.Exists()
}

// Parent returns the structural parent of the node.
func (n Node) Parent() (Node, bool) {
	if n.node == nil {
		return Node{}, false
	}
	parent := wrap(n.node.Parent(), n.source)
	return parent, parent.Exists()
}

// Children returns all children, named and anonymous.
func (n Node) Children() []Node {
	if n.node == nil {
		return nil
	}
	count := n.node.ChildCount()
	out := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, wrap(n.node.Child(i), n.source))
	}
	return out
}

// NamedChildren returns the named children of the node.
func (n Node) NamedChildren() []Node {
	if n.node == nil {
		return nil
	}
	count := n.node.NamedChildCount()
	out := make([]Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, wrap(n.node.NamedChild(i), n.source))
	}
	return out
}

// FirstNamedChild returns the first named child of the node.
func (n Node) FirstNamedChild() (Node, bool) {
	for _, child := range n.NamedChildren() {
		if child.Kind() != "comment" {
			return child, true
		}
	}
	return Node{}, false
}

// ChildOfKind returns the first direct child whose kind is one of kinds.
func (n Node) ChildOfKind(kinds ...string) (Node, bool) {
	for _, child := range n.Children() {
		if hasKind(child, kinds) {
			return child, true
		}
	}
	return Node{}, false
}

// Descendants returns every node below n whose kind is one of kinds, in
// source order.
func (n Node) Descendants(kinds ...string) []Node {
	var out []Node
	walkTree(n.node, func(node *sitter.Node) bool {
		if node != n.node && hasKind(wrap(node, n.source), kinds) {
			out = append(out, wrap(node, n.source))
		}
		return true
	})
	return out
}

func hasKind(n Node, kinds []string) bool {
	kind := n.Kind()
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// normalizeText collapses whitespace runs so reformatting is not reported as a change.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ExtractFile reads, parses and extracts a single file. A tree containing
// syntax errors is logged and still extracted.
func ExtractFile(ctx context.Context, e Extractor, path string) (*symbols.SourceDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := e.Parse(path, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if tree.Root().HasError() {
		log.Printf("Warning: %s contains syntax errors", path)
	}

	return e.Extract(tree)
}
