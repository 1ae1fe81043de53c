package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/signalnine/repairstats/internal/stats"
)

type Column struct {
	Name    string
	Numeric bool
}

// Table is a format-agnostic result table. Cells are strings, ints or
// stats.NullFloat.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Render writes t in the given format: latex, markdown, table or json.
func Render(w io.Writer, t *Table, format string) error {
	switch format {
	case "markdown":
		_, err := fmt.Fprintln(w, t.pretty().RenderMarkdown())
		return err
	case "table":
		_, err := fmt.Fprintln(w, t.pretty().Render())
		return err
	case "json":
		return writeJSON(w, t)
	default:
		return writeLatex(w, t)
	}
}

func (t *Table) pretty() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	header := make(table.Row, len(t.Columns))
	cfgs := make([]table.ColumnConfig, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
		align := text.AlignLeft
		if c.Numeric {
			align = text.AlignRight
		}
		cfgs[i] = table.ColumnConfig{Number: i + 1, Align: align}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(cfgs)
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = cell(v)
		}
		tw.AppendRow(row)
	}
	return tw
}

func cell(v any) string {
	switch x := v.(type) {
	case stats.NullFloat:
		return x.String()
	case float64:
		return stats.Format(x)
	default:
		return fmt.Sprint(x)
	}
}

// writeLatex emits a booktabs tabular block.
func writeLatex(w io.Writer, t *Table) error {
	var b strings.Builder
	b.WriteString(`\begin{tabular}{`)
	for _, c := range t.Columns {
		if c.Numeric {
			b.WriteByte('r')
		} else {
			b.WriteByte('l')
		}
	}
	b.WriteString("}\n\\toprule\n")

	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = escapeLatex(c.Name)
	}
	b.WriteString(strings.Join(names, " & ") + ` \\` + "\n\\midrule\n")

	for _, r := range t.Rows {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = escapeLatex(cell(v))
		}
		b.WriteString(strings.Join(cells, " & ") + ` \\` + "\n")
	}
	b.WriteString("\\bottomrule\n\\end{tabular}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`_`, `\_`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	`&`, `\&`,
)

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

func writeJSON(w io.Writer, t *Table) error {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		obj := make(map[string]any, len(r))
		for i, v := range r {
			obj[t.Columns[i].Name] = v
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
