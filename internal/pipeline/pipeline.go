// Package pipeline wires the loader, aggregator and reporter into the steps
// the CLI runs.
package pipeline

import (
	"fmt"
	"io"

	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/logging"
	"github.com/signalnine/repairstats/internal/report"
	"github.com/signalnine/repairstats/internal/result"
	"github.com/signalnine/repairstats/internal/store"
)

// DefaultIterations is the per-run patch count assumed when no iteration
// argument is given.
const DefaultIterations = 100

// Input is the cleaned, partitioned result data.
type Input struct {
	Dataset      *result.Dataset
	Counts       result.Counts
	Final        []result.Row
	Intermediate []result.Row
}

// Load reads and cleans every result file in dir, logging row counts at each
// stage.
func Load(cfg *config.Config, dir string, parallel, iterations int) (*Input, error) {
	log := logging.New("loader")

	ds, err := result.LoadDir(dir, parallel)
	if err != nil {
		return nil, err
	}
	log.Infof("result files: %d", len(ds.Files))

	counts := ds.Clean(cfg.Cleaning)
	final, intermediate := ds.Partition()
	counts.Final = len(final)
	counts.Intermediate = len(intermediate)

	log.Infof("all rows: %d", counts.All)
	log.Infof("after removing empty patches: %d", counts.NonEmpty)
	log.Infof("after filling sizes: %d", counts.SizeFilled)
	log.Infof("unique rows: %d", counts.Unique)
	log.Infof("invalid patches: %d", counts.Invalid)
	log.Infof("non-overfitting rows: %d", counts.Successful)
	log.Infof("final rows: %d", counts.Final)
	log.Infof("all patches: %d", counts.Final*iterations)
	log.Infof("intermediate rows: %d", counts.Intermediate)
	log.Infof("final + intermediate: %d", counts.Final+counts.Intermediate)
	if counts.Final+counts.Intermediate != counts.Unique {
		log.Warnf("partition mismatch: %d final + %d intermediate != %d unique rows",
			counts.Final, counts.Intermediate, counts.Unique)
	}

	return &Input{Dataset: ds, Counts: counts, Final: final, Intermediate: intermediate}, nil
}

type Options struct {
	SummaryPath string // summary table written by Analyse
	RunsPath    string // per-run audit table written by Analyse
	SummaryIn   string // summary re-read for the RQ tables; SummaryPath when empty
	SQLitePath  string // optional database export
	Format      string
}

// Analyse aggregates in, writes the summary and run tables, then renders the
// RQ tables from a fresh read of the summary file.
func Analyse(cfg *config.Config, in *Input, opts Options, w io.Writer) (*aggregate.Result, error) {
	log := logging.New("aggregate")

	res, err := aggregate.New(cfg).Run(in.Final, in.Intermediate)
	if err != nil {
		return nil, err
	}
	totals := res.Totals()
	log.Infof("patches found: %d", totals.PatchFound)
	log.Infof("non-overfitting found: %d", totals.NonOverfitting)
	log.Infof("intermediate patches found: %d", totals.InterPatchFound)
	log.Infof("intermediate non-overfitting found: %d", totals.InterNonOverfitting)

	if err := aggregate.WriteRecords(opts.SummaryPath, res.Records); err != nil {
		return nil, err
	}
	log.Infof("wrote %d records to %s", len(res.Records), opts.SummaryPath)
	if opts.RunsPath != "" {
		if err := aggregate.WriteRuns(opts.RunsPath, res.Runs); err != nil {
			return nil, err
		}
		log.Infof("wrote %d run records to %s", len(res.Runs), opts.RunsPath)
	}
	if opts.SQLitePath != "" {
		if err := export(opts.SQLitePath, res); err != nil {
			return nil, err
		}
		log.Infof("exported results to %s", opts.SQLitePath)
	}

	summaryIn := opts.SummaryIn
	if summaryIn == "" {
		summaryIn = opts.SummaryPath
	}
	return res, Report(cfg, in, summaryIn, opts.Format, w)
}

func export(path string, res *aggregate.Result) error {
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening export db: %w", err)
	}
	defer s.Close()
	return s.Save(res)
}

// Report renders the RQ1 program table, the RQ1 intermediate table and the
// RQ2 table from the summary file at summaryPath.
func Report(cfg *config.Config, in *Input, summaryPath, format string, w io.Writer) error {
	records, err := aggregate.ReadRecords(summaryPath)
	if err != nil {
		return err
	}

	programs, inters, err := report.RQ1(cfg, in.Final, in.Intermediate, records)
	if err != nil {
		return err
	}
	tables := []*report.Table{
		report.ProgramTable(programs),
		report.ProgramInterTable(inters),
		report.CriterionTable(report.RQ2(cfg, in.Final, records)),
	}
	for _, t := range tables {
		if err := report.Render(w, t, format); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
	}
	return nil
}
