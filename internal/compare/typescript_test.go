package compare

// Test Plan for TypeScript file comparison:
// - The base/next fixtures produce the full expected report
// - Whitespace and comment changes produce no result
// - Renaming a class is reported as Removed plus Added
// - Changing the type arguments of a base class is a Base Class change

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gencompare/internal/parsers"
	"github.com/mvp-joe/gencompare/internal/symbols"
)

func extractTS(t *testing.T, path string) *symbols.SourceDetails {
	t.Helper()
	details, err := parsers.ExtractFile(context.Background(), parsers.NewTypeScriptExtractor(), path)
	require.NoError(t, err)
	return details
}

func extractTSSource(t *testing.T, source string) *symbols.SourceDetails {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.ts")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return extractTS(t, path)
}

func TestCompareTypeScriptFile_Fixtures(t *testing.T) {
	t.Parallel()

	base := extractTS(t, testdataPath("typescript", "base", "index.ts"))
	next := extractTS(t, testdataPath("typescript", "next", "index.ts"))

	assert.Equal(t, []string{
		"~ index.ts",
		"  • Classes",
		"    - BaseClass",
		"    ~ SomeClass",
		"      • Methods",
		"        - removedMethod",
		"        ~ changedParamType",
		"          • Parameters",
		"            ~ firstParam",
		"              ~ Type",
		"                - string",
		"                + number",
		"        ~ changedReturnType",
		"          ~ Return Type",
		"            - string",
		"            + number",
		"        ~ reorderedParams",
		"          • Parameters",
		"            • Order Changed",
		"              - firstParam, secondParam",
		"              + secondParam, firstParam",
		"      • Fields",
		"        - removedField",
		"        - readOnlyChangedField",
		"        + readOnlyRemovedField",
		"    + DifferentBaseClass",
		"    ~ ExportedClass",
		"      ~ Base Class",
		"        - BaseClass",
		"        + DifferentBaseClass",
		"      • Interfaces",
		"        - AnotherInterface",
		"  • Interfaces",
		"    - AnotherInterface",
		"  • Types",
		"    - SomeUnion",
		"  • Variables",
		"    - SomeConst",
	}, outline(CompareTypeScriptFile("index.ts", base, next)))
}

func TestCompareTypeScriptFile_CosmeticChanges(t *testing.T) {
	t.Parallel()

	// Test: reformatting and comments are not structural differences
	oldFile := extractTSSource(t, `
export class Client {
  private endpoint: string;
  send(request: Request, options?: Options): Promise<Response> { return fetch(request); }
}
export type Color = "red" | "green";
`)
	newFile := extractTSSource(t, `
// Generated client.
export class Client {
  // where requests go
  private endpoint:   string;

  send(
    request: Request,
    options?: Options
  ): Promise<Response> {
    return fetch(request);
  }
}

export type Color =
  "red" |   "green";
`)

	assert.Nil(t, CompareTypeScriptFile("index.ts", oldFile, newFile))
}

func TestCompareTypeScriptFile_Rename(t *testing.T) {
	t.Parallel()

	oldFile := extractTSSource(t, "export class Widget {}\n")
	newFile := extractTSSource(t, "export class Gadget {}\n")

	assert.Equal(t, []string{
		"~ index.ts",
		"  • Classes",
		"    - Widget",
		"    + Gadget",
	}, outline(CompareTypeScriptFile("index.ts", oldFile, newFile)))
}

func TestCompareTypeScriptFile_GenericBaseClass(t *testing.T) {
	t.Parallel()

	oldFile := extractTSSource(t, "export class Repository extends Base<Foo> {}\n")
	newFile := extractTSSource(t, "export class Repository extends Base<Bar> {}\n")

	result := CompareTypeScriptFile("index.ts", oldFile, newFile)
	require.NotNil(t, result)
	assert.Equal(t, []string{
		"~ index.ts",
		"  • Classes",
		"    ~ Repository",
		"      ~ Base Class",
		"        - Base<Foo>",
		"        + Base<Bar>",
	}, outline(result))
}
