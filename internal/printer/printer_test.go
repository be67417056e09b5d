package printer

// Test Plan for report rendering:
// - PrintNode writes glyphs and two-space indentation per depth
// - Labels containing brackets print verbatim
// - Color codes are emitted only when color is enabled
// - PrintReport prints per-spec headers and a summary line
// - WriteJSON emits kinds by name and aggregated stats

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gencompare/internal/diff"
	"github.com/mvp-joe/gencompare/internal/operation"
)

func sampleNode() *diff.Node {
	return &diff.Node{Label: "index.ts", Kind: diff.Changed, Children: []*diff.Node{
		{Label: "Classes", Kind: diff.Outline, Children: []*diff.Node{
			diff.Leaf(diff.Removed, "BaseClass"),
			{Label: "Client", Kind: diff.Changed, Children: []*diff.Node{
				diff.CompareValue("Type", "string[]", "number[]"),
			}},
		}},
	}}
}

func TestPrintNode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).PrintNode(sampleNode()))

	assert.Equal(t, "~ index.ts\n"+
		"  • Classes\n"+
		"    - BaseClass\n"+
		"    ~ Client\n"+
		"      ~ Type\n"+
		"        - string[]\n"+
		"        + number[]\n", buf.String())
}

func TestPrintNode_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, true).PrintNode(diff.Leaf(diff.Added, "Widget[]")))

	out := buf.String()
	assert.Contains(t, out, "\033[")
	assert.Contains(t, out, "+ Widget[]")
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	node := sampleNode()
	report := &operation.Report{Results: []operation.SpecResult{
		{Language: "typescript", SpecPath: "a.json", Result: node, Stats: diff.Count(node)},
		{Language: "typescript", SpecPath: "b.json"},
	}}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).PrintReport(report))

	out := buf.String()
	assert.Contains(t, out, "a.json (typescript):\n~ index.ts\n")
	assert.Contains(t, out, "b.json (typescript): no differences\n")
	assert.Contains(t, out, "0 added, 1 removed, 1 changed")

	buf.Reset()
	require.NoError(t, New(&buf, false).PrintReport(&operation.Report{}))
	assert.Contains(t, buf.String(), "Outputs are equivalent.")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	node := sampleNode()
	report := &operation.Report{Results: []operation.SpecResult{
		{Language: "python", SpecPath: "a.json", OldPath: "/o/old", NewPath: "/o/new", Result: node, Stats: diff.Count(node)},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded struct {
		Results []struct {
			SpecPath string     `json:"spec_path"`
			Result   *diff.Node `json:"result"`
		} `json:"results"`
		Stats diff.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "a.json", decoded.Results[0].SpecPath)
	assert.Equal(t, node, decoded.Results[0].Result)
	assert.Equal(t, diff.Stats{Removed: 1, Changed: 1}, decoded.Stats)
	assert.Contains(t, buf.String(), `"kind": "changed"`)
}
