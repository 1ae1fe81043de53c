package cmd

import (
	"fmt"
	"strconv"

	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/pipeline"
	"github.com/signalnine/repairstats/internal/report"
	"github.com/spf13/cobra"
)

var (
	flagFormat    string
	flagSummary   string
	flagRuns      string
	flagSummaryIn string
	flagSQLite    string
	flagParallel  int
	flagVerbose   bool
)

func newAnalyseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyse <results-dir> [iterations]",
		Aliases: []string{"analyze"},
		Short:   "Aggregate result files and print the RQ1 and RQ2 tables",
		Long: "Read every results CSV in results-dir, write the summary and per-run tables, " +
			"then re-read the summary file and render the research-question tables to stdout.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			iterations, err := parseIterations(args)
			if err != nil {
				return err
			}
			applyOutputFlags(cmd, cfg)
			if err := config.ValidateFormat(cfg.Output.Format); err != nil {
				return err
			}

			in, err := pipeline.Load(cfg, args[0], flagParallel, iterations)
			if err != nil {
				return err
			}
			res, err := pipeline.Analyse(cfg, in, pipeline.Options{
				SummaryPath: cfg.Output.Summary,
				RunsPath:    cfg.Output.Runs,
				SummaryIn:   flagSummaryIn,
				SQLitePath:  flagSQLite,
				Format:      cfg.Output.Format,
			}, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if flagVerbose {
				return report.Render(cmd.ErrOrStderr(), report.TotalsTable(res.Totals()), "table")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "latex", "output format (latex, markdown, table, json)")
	cmd.Flags().StringVar(&flagSummary, "summary", "summary.csv", "summary table output path")
	cmd.Flags().StringVar(&flagRuns, "runs", "runs.csv", "per-run table output path")
	cmd.Flags().StringVar(&flagSummaryIn, "summary-in", "", "summary file re-read for the RQ tables (default: --summary)")
	cmd.Flags().StringVar(&flagSQLite, "sqlite", "", "also export results to this SQLite database")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "max result files parsed concurrently")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print patch totals to stderr")
	return cmd
}

// applyOutputFlags lets explicitly set flags override the config file.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") || cfgFile == "" {
		cfg.Output.Format = flagFormat
	}
	if cmd.Flags().Changed("summary") || cfgFile == "" {
		cfg.Output.Summary = flagSummary
	}
	if cmd.Flags().Changed("runs") || cfgFile == "" {
		cfg.Output.Runs = flagRuns
	}
}

func parseIterations(args []string) (int, error) {
	if len(args) < 2 {
		return pipeline.DefaultIterations, nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: iterations must be a positive integer, got %q", config.ErrConfig, args[1])
	}
	return n, nil
}
