package compare

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/parsers"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

// FileComparer diffs the symbols of two versions of one file. The result is
// labeled name and is nil when the files are equivalent.
type FileComparer func(name string, oldFile, newFile *symbols.SourceDetails) *diff.Node

// Language pairs an extractor with the comparator for its symbols.
type Language struct {
	Name       string
	Extensions []string
	Extractor  parsers.Extractor
	Compare    FileComparer
}

// TypeScript returns the language entry for .ts files.
func TypeScript() Language {
	return Language{
		Name:       "typescript",
		Extensions: []string{".ts"},
		Extractor:  parsers.NewTypeScriptExtractor(),
		Compare:    CompareTypeScriptFile,
	}
}

// TSX returns the language entry for .tsx files.
func TSX() Language {
	return Language{
		Name:       "tsx",
		Extensions: []string{".tsx"},
		Extractor:  parsers.NewTSXExtractor(),
		Compare:    CompareTypeScriptFile,
	}
}

// Python returns the language entry for .py and .pyi files.
func Python() Language {
	return Language{
		Name:       "python",
		Extensions: []string{".py", ".pyi"},
		Extractor:  parsers.NewPythonExtractor(),
		Compare:    ComparePythonFile,
	}
}

// Registry maps file extensions to languages.
type Registry struct {
	byExtension map[string]Language
}

// NewRegistry builds a registry from langs. A later entry wins when two
// languages claim the same extension.
func NewRegistry(langs ...Language) *Registry {
	r := &Registry{byExtension: make(map[string]Language)}
	for _, lang := range langs {
		for _, ext := range lang.Extensions {
			r.byExtension[strings.ToLower(ext)] = lang
		}
	}
	return r
}

// DefaultRegistry registers every supported language.
func DefaultRegistry() *Registry {
	return NewRegistry(TypeScript(), TSX(), Python())
}

// ForPath returns the language registered for the extension of path.
func (r *Registry) ForPath(path string) (Language, bool) {
	lang, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
