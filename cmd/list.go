package cmd

import (
	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/pipeline"
	"github.com/signalnine/repairstats/internal/report"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <results-dir>",
		Short: "List run groups with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			in, err := pipeline.Load(cfg, args[0], 1, pipeline.DefaultIterations)
			if err != nil {
				return err
			}
			shapes := aggregate.Shapes(cfg, in.Final, in.Intermediate)
			return report.Render(cmd.OutOrStdout(), shapeTable(shapes), "table")
		},
	}
}

func shapeTable(shapes []aggregate.GroupShape) *report.Table {
	t := &report.Table{Columns: []report.Column{
		{Name: "Target"},
		{Name: "Criterion"},
		{Name: "Final", Numeric: true},
		{Name: "Intermediate", Numeric: true},
		{Name: "Expected", Numeric: true},
		{Name: "Windows", Numeric: true},
		{Name: "Status"},
	}}
	for _, s := range shapes {
		t.Rows = append(t.Rows, []any{s.TargetClass, s.Criterion, s.Final, s.Intermediate, s.Expected, s.Windows, shapeStatus(s)})
	}
	return t
}

func shapeStatus(s aggregate.GroupShape) string {
	switch {
	case s.Final == 0:
		return "no final rows"
	case s.Partial:
		return "partial window"
	case s.Ignored > 0:
		return "extra rows ignored"
	default:
		return "ok"
	}
}
