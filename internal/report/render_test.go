package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/report"
	"github.com/signalnine/repairstats/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *report.Table {
	return report.CriterionTable([]report.InterSummary{
		{Criterion: "BRANCH;LINE;WEAKMUTATION;CBRANCH", Sample: 100, InterPatchFound: 40, InterNonOverfitting: 10, Ratio: stats.Some(0.25)},
		{Criterion: "MANUAL", Sample: 100},
	})
}

func TestRenderLatex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, sampleTable(), "latex"))

	want := `\begin{tabular}{lrrrr}
\toprule
Criterion & Test Suite Sample\% & Intermediate Patches Found & Intermediate Non-Overfitting & Non-Overfitting Ratio \\
\midrule
BRANCH;LINE;WEAKMUTATION;CBRANCH & 100 & 40 & 10 & 0.25 \\
MANUAL & 100 & 0 & 0 & NaN \\
\bottomrule
\end{tabular}
`
	assert.Equal(t, want, buf.String())
}

func TestRenderLatexEscapes(t *testing.T) {
	table := &report.Table{
		Columns: []report.Column{{Name: "a_b"}},
		Rows:    [][]any{{`x&y#z$~^{}\`}},
	}
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, table, "latex"))
	assert.Contains(t, buf.String(), `a\_b \\`)
	assert.Contains(t, buf.String(), `x\&y\#z\$\textasciitilde{}\textasciicircum{}\{\}\textbackslash{} \\`)
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, sampleTable(), "markdown"))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "| Criterion |"), out)
	assert.Contains(t, out, "| MANUAL |")
	assert.Contains(t, out, "NaN")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.ProgramTable([]report.ProgramSummary{
		{Program: "SortBubble", LoC: 15, TestSuiteSize: "1--10", TestSuites: 21, PatchFound: 20, NonOverfitting: 19},
	}), "table"))
	out := buf.String()
	assert.Contains(t, out, "SortBubble")
	assert.Contains(t, out, "1--10")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, sampleTable(), "json"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "MANUAL", got[1]["Criterion"])
	assert.Equal(t, 0.25, got[0]["Non-Overfitting Ratio"])
	assert.Nil(t, got[1]["Non-Overfitting Ratio"])
}

func TestRenderTotals(t *testing.T) {
	var buf bytes.Buffer
	totals := aggregate.Totals{PatchFound: 80, NonOverfitting: 35, InterPatchFound: 53, InterNonOverfitting: 30}
	require.NoError(t, report.Render(&buf, report.TotalsTable(totals), "json"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, "Patches found", got[0]["Total"])
	assert.Equal(t, 80.0, got[0]["Count"])
	assert.Equal(t, 30.0, got[3]["Count"])
}
