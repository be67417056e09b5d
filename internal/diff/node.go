// Package diff holds the classified, nested comparison report and the generic
// name-keyed differ that produces it.
package diff

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a report node.
type Kind int

const (
	// Outline aggregates child differences without a value change of its own.
	Outline Kind = iota
	// Added marks an item that only exists on the new side.
	Added
	// Removed marks an item that only exists on the old side.
	Removed
	// Changed marks an item present on both sides whose contents differ.
	Changed
)

var kindNames = map[Kind]string{
	Outline: "outline",
	Added:   "added",
	Removed: "removed",
	Changed: "changed",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler so JSON reports carry readable kinds.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diff kind %q", string(text))
}

// Node is one entry of a diff report.
//
// A nil *Node means "no difference". Added and Removed nodes are leaves.
// Outline and Changed nodes are only ever built with at least one child.
type Node struct {
	Label    string  `json:"label"`
	Kind     Kind    `json:"kind"`
	Children []*Node `json:"children,omitempty"`
}

// Leaf returns an Added or Removed node with no children.
func Leaf(kind Kind, label string) *Node {
	return &Node{Label: label, Kind: kind}
}

// PrepareResult wraps the non-nil results under a node labeled label.
// It returns nil when every result is nil.
func PrepareResult(label string, kind Kind, results ...*Node) *Node {
	children := make([]*Node, 0, len(results))
	for _, r := range results {
		if r != nil {
			children = append(children, r)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &Node{Label: label, Kind: kind, Children: children}
}

// Walk visits n and its descendants depth-first, passing the depth of each node.
func Walk(n *Node, visit func(node *Node, depth int)) {
	walk(n, 0, visit)
}

func walk(n *Node, depth int, visit func(*Node, int)) {
	if n == nil {
		return
	}
	visit(n, depth)
	for _, child := range n.Children {
		walk(child, depth+1, visit)
	}
}

// Stats counts the leaves and changes in a report.
type Stats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Changed int `json:"changed"`
}

// Empty reports whether no difference was counted.
func (s Stats) Empty() bool {
	return s.Added == 0 && s.Removed == 0 && s.Changed == 0
}

// Count tallies the differences under n. A Removed/Added pair produced by a
// value comparison (or an order change) counts as a single change; any other
// Added or Removed leaf counts on its own.
func Count(n *Node) Stats {
	var s Stats
	count(n, &s)
	return s
}

func count(n *Node, s *Stats) {
	if n == nil {
		return
	}
	switch {
	case isValueChange(n):
		s.Changed++
		return
	case n.Kind == Added:
		s.Added++
	case n.Kind == Removed:
		s.Removed++
	}
	for _, child := range n.Children {
		count(child, s)
	}
}

// isValueChange reports whether node is a Removed/Added leaf pair built by
// CompareValue or by an order change.
func isValueChange(node *Node) bool {
	if node.Kind != Changed && node.Label != OrderChangedLabel {
		return false
	}
	return len(node.Children) == 2 &&
		node.Children[0].Kind == Removed && len(node.Children[0].Children) == 0 &&
		node.Children[1].Kind == Added && len(node.Children[1].Children) == 0
}

// MarshalIndent renders the report as indented JSON. A nil report renders as null.
func MarshalIndent(n *Node) ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}
