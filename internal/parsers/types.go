package parsers

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/gencompare/internal/symbols"
)

// Extractor reduces a parsed source file to its canonical symbols.
//
// Implementations are stateless: a single value is created at startup and
// shared by every caller, including concurrent ones.
type Extractor interface {
	// Language returns the language name, e.g. "typescript".
	Language() string

	// Parse parses source into a tree that must be closed by the caller.
	Parse(path string, source []byte) (*Tree, error)

	// Extract builds SourceDetails from a parsed tree. A tree whose shape
	// does not match what the extractor expects yields an *ExtractionError.
	Extract(tree *Tree) (*symbols.SourceDetails, error)
}

// ErrExtraction is the sentinel wrapped by every ExtractionError.
var ErrExtraction = errors.New("extraction failed")

// ExtractionError reports a syntax tree that does not have the shape an
// extractor requires, such as a declaration without a name.
type ExtractionError struct {
	Path   string
	Line   int
	Kind   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s:%d: cannot extract %s: %s", e.Path, e.Line, e.Kind, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}

// extraction carries per-file state while a tree is being walked.
type extraction struct {
	path string
}

// required returns the child for role or an ExtractionError when it is missing.
func (x *extraction) required(n Node, role string) (Node, error) {
	child, ok := n.Field(role)
	if !ok {
		return Node{}, x.fail(n, fmt.Sprintf("missing %q child", role))
	}
	return child, nil
}

func (x *extraction) fail(n Node, reason string) error {
	return &ExtractionError{
		Path:   x.path,
		Line:   n.Line(),
		Kind:   n.Kind(),
		Reason: reason,
	}
}
