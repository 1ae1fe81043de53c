package cmd

import (
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/pipeline"
	"github.com/spf13/cobra"
)

var flagReportFormat string

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <results-dir> <summary-csv>",
		Short: "Render the RQ tables from an existing summary file",
		Long: "Render RQ1 and RQ2 from a previously written summary file (for example out.csv) " +
			"without re-aggregating. The results directory still supplies targets, criteria and test suite sizes.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			format := cfg.Output.Format
			if cmd.Flags().Changed("format") {
				format = flagReportFormat
			}
			if err := config.ValidateFormat(format); err != nil {
				return err
			}
			in, err := pipeline.Load(cfg, args[0], 1, pipeline.DefaultIterations)
			if err != nil {
				return err
			}
			return pipeline.Report(cfg, in, args[1], format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flagReportFormat, "format", "latex", "output format (latex, markdown, table, json)")
	return cmd
}
