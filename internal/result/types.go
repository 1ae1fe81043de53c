package result

import "github.com/signalnine/repairstats/internal/stats"

// Column names of an experiment results file.
const (
	ColTargetClass  = "TARGET_CLASS"
	ColCriterion    = "criterion"
	ColPatch        = "patch"
	ColSize         = "Size"
	ColValidPatch   = "validpatch"
	ColSuccess      = "success"
	ColIntermediate = "intermediate"
	ColIndex        = "Index"
	ColBranch       = "BRANCH_Coverage"
	ColLine         = "LINE_Coverage"
	ColWeakMutation = "WEAKMUTATION_Coverage"
	ColCBranch      = "CBRANCH_Coverage"
)

// RequiredColumns must be present in every non-empty results file.
var RequiredColumns = []string{
	ColTargetClass, ColCriterion, ColPatch, ColValidPatch,
	ColSuccess, ColIntermediate, ColIndex,
}

var modelled = map[string]bool{
	ColTargetClass: true, ColCriterion: true, ColPatch: true, ColSize: true,
	ColValidPatch: true, ColSuccess: true, ColIntermediate: true, ColIndex: true,
	ColBranch: true, ColLine: true, ColWeakMutation: true, ColCBranch: true,
}

// Row is one repair attempt: a final patch, or an intermediate patch from a
// generation of the search identified by Index.
type Row struct {
	Source string // file the row was read from
	Line   int    // 1-based line in Source, header is line 1

	TargetClass  string
	Criterion    string
	Patch        string
	Size         stats.NullFloat
	ValidPatch   bool
	Success      bool
	Intermediate bool
	Index        int
	Coverage     Coverage

	// Extra keeps the remaining columns verbatim so duplicate detection
	// compares whole rows.
	Extra map[string]string
}

type Coverage struct {
	Branch       stats.NullFloat
	Line         stats.NullFloat
	WeakMutation stats.NullFloat
	CBranch      stats.NullFloat
}

// Dataset is the concatenation of all result files in sorted file order.
type Dataset struct {
	Files []string
	Rows  []Row
}

// Counts records the row count after each cleaning stage.
type Counts struct {
	All          int
	NonEmpty     int
	SizeFilled   int
	Unique       int
	Invalid      int
	Successful   int
	Final        int
	Intermediate int
}
