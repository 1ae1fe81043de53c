package result

import (
	"sort"
	"strconv"
	"strings"

	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/stats"
)

// Clean applies, in order: empty-patch removal, the special-case size,
// the default size, and exact duplicate removal (first occurrence wins).
// It returns the row count after each stage.
func (d *Dataset) Clean(c config.Cleaning) Counts {
	counts := Counts{All: len(d.Rows)}

	kept := d.Rows[:0]
	for _, r := range d.Rows {
		if r.Patch == c.EmptyPatch {
			continue
		}
		kept = append(kept, r)
	}
	d.Rows = kept
	counts.NonEmpty = len(d.Rows)

	for i := range d.Rows {
		r := &d.Rows[i]
		if r.Criterion == c.SpecialCriteria && r.TargetClass == c.SpecialTarget {
			r.Size = stats.Some(c.SpecialSize)
		}
		if !r.Size.Valid {
			r.Size = stats.Some(c.DefaultSize)
		}
	}
	counts.SizeFilled = len(d.Rows)

	seen := make(map[string]bool, len(d.Rows))
	unique := d.Rows[:0]
	for _, r := range d.Rows {
		k := r.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, r)
	}
	d.Rows = unique
	counts.Unique = len(d.Rows)

	for _, r := range d.Rows {
		if !r.ValidPatch {
			counts.Invalid++
		}
		if r.Success {
			counts.Successful++
		}
	}
	return counts
}

// Partition splits rows into final and intermediate patches.
func (d *Dataset) Partition() (final, intermediate []Row) {
	for _, r := range d.Rows {
		if r.Intermediate {
			intermediate = append(intermediate, r)
		} else {
			final = append(final, r)
		}
	}
	return final, intermediate
}

// key identifies a row by content. Empty extra cells are skipped so that a
// column absent from one file and blank in another compare equal.
func (r *Row) key() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(s)
		b.WriteByte(0x1f)
	}
	field(r.TargetClass)
	field(r.Criterion)
	field(r.Patch)
	field(r.Size.String())
	field(strconv.FormatBool(r.ValidPatch))
	field(strconv.FormatBool(r.Success))
	field(strconv.FormatBool(r.Intermediate))
	field(strconv.Itoa(r.Index))
	field(r.Coverage.Branch.String())
	field(r.Coverage.Line.String())
	field(r.Coverage.WeakMutation.String())
	field(r.Coverage.CBranch.String())

	keys := make([]string, 0, len(r.Extra))
	for k, v := range r.Extra {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		field(k + "=" + r.Extra[k])
	}
	return b.String()
}

// Targets returns the distinct target classes in first-seen order.
func Targets(rows []Row) []string {
	return distinct(rows, func(r *Row) string { return r.TargetClass })
}

// Criteria returns the distinct criteria in first-seen order.
func Criteria(rows []Row) []string {
	return distinct(rows, func(r *Row) string { return r.Criterion })
}

func distinct(rows []Row, field func(*Row) string) []string {
	seen := map[string]bool{}
	var out []string
	for i := range rows {
		v := field(&rows[i])
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Group returns the rows for one (target, criterion) pair, preserving order.
func Group(rows []Row, target, criterion string) []Row {
	var out []Row
	for _, r := range rows {
		if r.TargetClass == target && r.Criterion == criterion {
			out = append(out, r)
		}
	}
	return out
}
