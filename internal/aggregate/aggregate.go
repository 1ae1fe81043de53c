package aggregate

import (
	"errors"
	"fmt"

	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/logging"
	"github.com/signalnine/repairstats/internal/result"
	"github.com/signalnine/repairstats/internal/stats"
	"github.com/sirupsen/logrus"
)

// ErrDataShape marks a run group that only partly fills a sampling window.
var ErrDataShape = errors.New("data shape error")

// Window is a positional slice [Start, End) of a run group. Boundaries assume
// exactly WindowSize runs per sampling level, in file concatenation order.
type Window struct {
	Start int
	End   int
	Level int
}

// Windows returns the sampling windows for a criterion: one per configured
// level, or just the first for MANUAL.
func Windows(cfg *config.Config, criterion string) []Window {
	levels := cfg.LevelsFor(criterion)
	ws := make([]Window, len(levels))
	for i, lvl := range levels {
		ws[i] = Window{Start: i * cfg.WindowSize, End: (i + 1) * cfg.WindowSize, Level: lvl}
	}
	return ws
}

// Result holds the summary records and the per-run breakdown of one aggregation.
type Result struct {
	Records []Record
	Runs    []RunRecord
}

// Totals adds up the counts of every record.
func (r *Result) Totals() Totals {
	var t Totals
	for _, rec := range r.Records {
		t.PatchFound += rec.PatchFound
		t.NonOverfitting += rec.NonOverfitting
		t.InterPatchFound += rec.InterPatchFound
		t.InterNonOverfitting += rec.InterNonOverfitting
	}
	return t
}

// Aggregator slices run groups into sampling windows and counts patches.
type Aggregator struct {
	cfg *config.Config
	log *logrus.Entry
}

// New returns an Aggregator for cfg.
func New(cfg *config.Config) *Aggregator {
	return &Aggregator{cfg: cfg, log: logging.New("aggregate")}
}

type interKey struct {
	target    string
	criterion string
	index     int
}

type interCount struct {
	total   int
	success int
}

// Run produces one Record per (target, criterion, sampling level) that has
// rows, plus one RunRecord per valid final patch. Targets are visited in
// first-seen order, criteria in configured order.
func (a *Aggregator) Run(final, intermediate []result.Row) (*Result, error) {
	inter := make(map[interKey]interCount)
	for _, r := range intermediate {
		k := interKey{r.TargetClass, r.Criterion, r.Index}
		c := inter[k]
		c.total++
		if r.Success {
			c.success++
		}
		inter[k] = c
	}

	res := &Result{}
	for _, target := range result.Targets(final) {
		for _, criterion := range a.cfg.Criteria {
			group := result.Group(final, target, criterion)
			if len(group) == 0 {
				a.log.Debugf("no final rows for %s/%s", target, criterion)
				continue
			}
			for _, w := range Windows(a.cfg, criterion) {
				if w.Start >= len(group) {
					continue
				}
				end := min(w.End, len(group))
				if end-w.Start < w.End-w.Start {
					msg := fmt.Sprintf("%s/%s sample %d%% has %d of %d rows", target, criterion, w.Level, end-w.Start, w.End-w.Start)
					if !a.cfg.AllowPartialWindows {
						return nil, fmt.Errorf("%w: %s", ErrDataShape, msg)
					}
					a.log.Warn(msg)
				}
				a.window(res, group[w.Start:end], target, criterion, w.Level, inter)
			}
		}
	}
	return res, nil
}

func (a *Aggregator) window(res *Result, rows []result.Row, target, criterion string, level int, inter map[interKey]interCount) {
	first := rows[0]
	setting := Setting{
		TargetClass:          target,
		Criterion:            criterion,
		Size:                 first.Size,
		Sample:               level,
		BranchCoverage:       first.Coverage.Branch,
		LineCoverage:         first.Coverage.Line,
		WeakMutationCoverage: first.Coverage.WeakMutation,
		CBranchCoverage:      first.Coverage.CBranch,
	}

	var valid []result.Row
	nonOverfitting := 0
	for _, r := range rows {
		if !r.ValidPatch {
			continue
		}
		valid = append(valid, r)
		if r.Success {
			nonOverfitting++
		}
	}

	rec := Record{
		Setting:        setting,
		PatchFound:     len(valid),
		NonOverfitting: nonOverfitting,
	}
	ratios := make([]float64, 0, len(valid))
	for _, r := range valid {
		c := inter[interKey{target, criterion, r.Index}]
		rec.InterPatchFound += c.total
		rec.InterNonOverfitting += c.success
		ratio := 0.0
		if c.total > 0 {
			ratio = float64(c.success) / float64(c.total)
		}
		ratios = append(ratios, ratio)
		res.Runs = append(res.Runs, RunRecord{
			Setting:              setting,
			PatchFound:           len(valid),
			NonOverfitting:       nonOverfitting,
			InterPatchFound:      c.total,
			InterNonOverfitting:  c.success,
			Run:                  r.Index,
			InterNonOverfitRatio: ratio,
		})
	}
	rec.RatioMean = stats.Mean(ratios).Round(2)
	rec.RatioMedian = stats.Median(ratios).Round(2)
	rec.NonOverfitRatio = stats.Ratio(rec.NonOverfitting, rec.PatchFound)
	rec.InterNonOverfitRatio = stats.Ratio(rec.InterNonOverfitting, rec.InterPatchFound)
	res.Records = append(res.Records, rec)
}

// GroupShape describes how well a run group fills its sampling windows.
type GroupShape struct {
	TargetClass  string
	Criterion    string
	Final        int
	Intermediate int
	Expected     int
	Windows      int // windows with at least one row
	Partial      bool
	Ignored      int // rows past the last window
}

// Shapes reports every (target, criterion) pair present in either partition.
func Shapes(cfg *config.Config, final, intermediate []result.Row) []GroupShape {
	type key struct{ target, criterion string }
	var order []key
	counts := map[key]*GroupShape{}
	add := func(r result.Row, inter bool) {
		k := key{r.TargetClass, r.Criterion}
		s, ok := counts[k]
		if !ok {
			s = &GroupShape{TargetClass: r.TargetClass, Criterion: r.Criterion}
			counts[k] = s
			order = append(order, k)
		}
		if inter {
			s.Intermediate++
		} else {
			s.Final++
		}
	}
	for _, r := range final {
		add(r, false)
	}
	for _, r := range intermediate {
		add(r, true)
	}

	out := make([]GroupShape, 0, len(order))
	for _, k := range order {
		s := counts[k]
		ws := Windows(cfg, s.Criterion)
		s.Expected = len(ws) * cfg.WindowSize
		covered := min(s.Final, s.Expected)
		s.Windows = (covered + cfg.WindowSize - 1) / cfg.WindowSize
		s.Partial = covered%cfg.WindowSize != 0
		s.Ignored = max(0, s.Final-s.Expected)
		out = append(out, *s)
	}
	return out
}
