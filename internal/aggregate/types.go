package aggregate

import "github.com/signalnine/repairstats/internal/stats"

// Setting identifies one experimental configuration: a target program, a
// test-generation criterion and a test-suite sampling level.
type Setting struct {
	TargetClass          string          `csv:"TARGET_CLASS" json:"target_class"`
	Criterion            string          `csv:"criterion" json:"criterion"`
	Size                 stats.NullFloat `csv:"Size" json:"size"`
	Sample               int             `csv:"test_suite_sample%" json:"test_suite_sample"`
	BranchCoverage       stats.NullFloat `csv:"BRANCH_Coverage" json:"branch_coverage"`
	LineCoverage         stats.NullFloat `csv:"LINE_Coverage" json:"line_coverage"`
	WeakMutationCoverage stats.NullFloat `csv:"WEAKMUTATION_Coverage" json:"weakmutation_coverage"`
	CBranchCoverage      stats.NullFloat `csv:"CBRANCH_Coverage" json:"cbranch_coverage"`
}

// Record is one row of the summary table.
type Record struct {
	Setting
	PatchFound           int             `csv:"patch_found" json:"patch_found"`
	NonOverfitting       int             `csv:"non_overfitting" json:"non_overfitting"`
	InterPatchFound      int             `csv:"inter_patch_found" json:"inter_patch_found"`
	InterNonOverfitting  int             `csv:"inter_non_overfitting" json:"inter_non_overfitting"`
	RatioMean            stats.NullFloat `csv:"ratio_mean" json:"ratio_mean"`
	RatioMedian          stats.NullFloat `csv:"ratio_median" json:"ratio_median"`
	NonOverfitRatio      stats.NullFloat `csv:"non_overfit_ratio" json:"non_overfit_ratio"`
	InterNonOverfitRatio stats.NullFloat `csv:"inter_non_overfit_ratio" json:"inter_non_overfit_ratio"`
}

// RunRecord is the per-generation breakdown behind a Record, used to audit
// outliers.
type RunRecord struct {
	Setting
	PatchFound           int     `csv:"patch_found" json:"patch_found"`
	NonOverfitting       int     `csv:"non_overfitting" json:"non_overfitting"`
	InterPatchFound      int     `csv:"inter_patch_found" json:"inter_patch_found"`
	InterNonOverfitting  int     `csv:"inter_non_overfitting" json:"inter_non_overfitting"`
	Run                  int     `csv:"giRun" json:"gi_run"`
	InterNonOverfitRatio float64 `csv:"inter_non_overfit_ratio" json:"inter_non_overfit_ratio"`
}

// Totals sums the patch counts over all summary records.
type Totals struct {
	PatchFound          int
	NonOverfitting      int
	InterPatchFound     int
	InterNonOverfitting int
}
