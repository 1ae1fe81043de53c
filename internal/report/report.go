package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/result"
	"github.com/signalnine/repairstats/internal/stats"
)

// ProgramSummary is one row of the RQ1 program table.
type ProgramSummary struct {
	Program        string
	LoC            int
	TestSuiteSize  string
	TestSuites     int
	PatchFound     int
	NonOverfitting int
}

// InterSummary sums intermediate patches for a program (RQ1) or for a
// criterion at a sampling level (RQ2).
type InterSummary struct {
	Program             string
	Criterion           string
	Sample              int
	InterPatchFound     int
	InterNonOverfitting int
	Ratio               stats.NullFloat
}

// ProgramName strips the fixed-length package prefix from a target class.
func ProgramName(target string, prefixLen int) string {
	if len(target) <= prefixLen {
		return ""
	}
	return target[prefixLen:]
}

// RQ1 builds the per-program tables. records is the summary table as read
// back from disk; final and intermediate are the cleaned result rows.
func RQ1(cfg *config.Config, final, intermediate []result.Row, records []aggregate.Record) ([]ProgramSummary, []InterSummary, error) {
	var programs []ProgramSummary
	var inters []InterSummary
	for _, target := range result.Targets(final) {
		name := ProgramName(target, cfg.Programs.PrefixLen)
		loc, ok := cfg.Programs.Lines[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: no line count for program %q (target %s); add it to programs.lines", config.ErrConfig, name, target)
		}

		var sizes []stats.NullFloat
		for _, r := range intermediate {
			if r.TargetClass == target {
				sizes = append(sizes, r.Size)
			}
		}
		suiteSize := ""
		if m := stats.Max(sizes); m.Valid {
			suiteSize = "1--" + strconv.Itoa(int(math.RoundToEven(m.Float64)))
		}

		var noPatch, noNonOverfit int
		inter := InterSummary{Program: name}
		for _, rec := range records {
			if rec.TargetClass != target {
				continue
			}
			if rec.PatchFound == 0 {
				noPatch++
			}
			if rec.NonOverfitting == 0 {
				noNonOverfit++
			}
			inter.InterPatchFound += rec.InterPatchFound
			inter.InterNonOverfitting += rec.InterNonOverfitting
		}
		inter.Ratio = stats.Ratio(inter.InterNonOverfitting, inter.InterPatchFound).Round(2)

		programs = append(programs, ProgramSummary{
			Program:        name,
			LoC:            loc,
			TestSuiteSize:  suiteSize,
			TestSuites:     cfg.Runs,
			PatchFound:     cfg.Runs - noPatch,
			NonOverfitting: cfg.Runs - noNonOverfit,
		})
		inters = append(inters, inter)
	}
	sort.SliceStable(programs, func(i, j int) bool { return programs[i].Program < programs[j].Program })
	sort.SliceStable(inters, func(i, j int) bool { return inters[i].Program < inters[j].Program })
	return programs, inters, nil
}

// RQ2 sums intermediate patches per criterion and sampling level, for the
// criteria present in final.
func RQ2(cfg *config.Config, final []result.Row, records []aggregate.Record) []InterSummary {
	var out []InterSummary
	for _, criterion := range result.Criteria(final) {
		for _, level := range cfg.LevelsFor(criterion) {
			s := InterSummary{Criterion: criterion, Sample: level}
			for _, rec := range records {
				if rec.Criterion == criterion && rec.Sample == level {
					s.InterPatchFound += rec.InterPatchFound
					s.InterNonOverfitting += rec.InterNonOverfitting
				}
			}
			s.Ratio = stats.Ratio(s.InterNonOverfitting, s.InterPatchFound).Round(2)
			out = append(out, s)
		}
	}
	return out
}

func ProgramTable(rows []ProgramSummary) *Table {
	t := &Table{Columns: []Column{
		{Name: "Program"},
		{Name: "LoC", Numeric: true},
		{Name: "Test Suite Size"},
		{Name: "Test Suites", Numeric: true},
		{Name: "Patch Found", Numeric: true},
		{Name: "Non-Overfitting", Numeric: true},
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Program, r.LoC, r.TestSuiteSize, r.TestSuites, r.PatchFound, r.NonOverfitting})
	}
	return t
}

func ProgramInterTable(rows []InterSummary) *Table {
	t := &Table{Columns: []Column{
		{Name: "Program"},
		{Name: "Intermediate Patches Found", Numeric: true},
		{Name: "Intermediate Non-Overfitting", Numeric: true},
		{Name: "Non-Overfitting Ratio", Numeric: true},
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Program, r.InterPatchFound, r.InterNonOverfitting, r.Ratio})
	}
	return t
}

func CriterionTable(rows []InterSummary) *Table {
	t := &Table{Columns: []Column{
		{Name: "Criterion"},
		{Name: "Test Suite Sample%", Numeric: true},
		{Name: "Intermediate Patches Found", Numeric: true},
		{Name: "Intermediate Non-Overfitting", Numeric: true},
		{Name: "Non-Overfitting Ratio", Numeric: true},
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Criterion, r.Sample, r.InterPatchFound, r.InterNonOverfitting, r.Ratio})
	}
	return t
}

// TotalsTable lists the patch totals across all summary records.
func TotalsTable(t aggregate.Totals) *Table {
	return &Table{
		Columns: []Column{{Name: "Total"}, {Name: "Count", Numeric: true}},
		Rows: [][]any{
			{"Patches found", t.PatchFound},
			{"Non-overfitting", t.NonOverfitting},
			{"Intermediate patches found", t.InterPatchFound},
			{"Intermediate non-overfitting", t.InterNonOverfitting},
		},
	}
}
