package compare

// Test Plan for Python file comparison:
// - Fixture models: changed bases and class attributes are reported
// - A fixture file with a syntax error is still compared
// - Base order is significant, method order is not

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/parsers"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

func extractPy(t *testing.T, path string) *symbols.SourceDetails {
	t.Helper()
	details, err := parsers.ExtractFile(context.Background(), parsers.NewPythonExtractor(), path)
	require.NoError(t, err)
	return details
}

func extractPySource(t *testing.T, source string) *symbols.SourceDetails {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.py")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return extractPy(t, path)
}

func findChild(n *diff.Node, label string) *diff.Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Label == label {
			return child
		}
	}
	return nil
}

func TestComparePythonFile_Fixtures(t *testing.T) {
	t.Parallel()

	oldFile := extractPy(t, testdataPath("python", "old", "models.py"))
	newFile := extractPy(t, testdataPath("python", "new", "models.py"))

	result := ComparePythonFile("models.py", oldFile, newFile)
	require.NotNil(t, result)

	errorClass := findChild(findChild(result, "Classes"), "Error")
	require.NotNil(t, errorClass)

	assert.Equal(t, []string{
		"• Bases",
		"  - msrest.serialization.Model",
		"  + msrest.serialization.Model2",
	}, outline(findChild(errorClass, "Bases")))

	fields := findChild(errorClass, "Fields")
	require.NotNil(t, fields)
	added := findChild(fields, "_EXCEPTION_TYPE")
	require.NotNil(t, added)
	assert.Equal(t, diff.Added, added.Kind)
	assert.NotNil(t, findChild(findChild(fields, "_attribute_map"), "Value"))
}

func TestComparePythonFile_Bases(t *testing.T) {
	t.Parallel()

	oldFile := extractPySource(t, `
class Model(Base, Mixin):
    def a(self): pass
    def b(self): pass
`)
	newFile := extractPySource(t, `
class Model(Mixin, Base):
    def b(self): pass
    def a(self): pass
`)

	assert.Equal(t, []string{
		"~ models.py",
		"  • Classes",
		"    ~ Model",
		"      • Bases",
		"        • Order Changed",
		"          - Base, Mixin",
		"          + Mixin, Base",
	}, outline(ComparePythonFile("models.py", oldFile, newFile)))
}

func TestComparePythonFile_MethodSignature(t *testing.T) {
	t.Parallel()

	oldFile := extractPySource(t, `
class Client:
    def get(self, name: str, timeout: int = 10) -> bytes:
        return b""
`)
	newFile := extractPySource(t, `
class Client:
    def get(self, name: int, timeout: int) -> str:
        return ""
`)

	assert.Equal(t, []string{
		"~ models.py",
		"  • Classes",
		"    ~ Client",
		"      • Methods",
		"        ~ get",
		"          • Parameters",
		"            ~ name",
		"              ~ Type",
		"                - str",
		"                + int",
		"            ~ timeout",
		"              ~ Optional",
		"                - true",
		"                + false",
		"          ~ Return Type",
		"            - bytes",
		"            + str",
	}, outline(ComparePythonFile("models.py", oldFile, newFile)))
}
