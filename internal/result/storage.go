package result

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/stats"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

// ErrSchema marks a results file whose columns or cells cannot be read.
var ErrSchema = errors.New("schema error")

// Extension of the result files picked up by ListFiles.
const Extension = ".csv"

// ListFiles returns the result files in dir sorted by name. Window slicing is
// positional, so this order decides which rows land in which sample.
func ListFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: results dir %s: %w", config.ErrConfig, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: results dir %s is not a directory", config.ErrConfig, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir reads every result file in dir. Files are parsed by up to parallel
// goroutines; rows are always concatenated in ListFiles order.
func LoadDir(dir string, parallel int) (*Dataset, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if parallel < 1 {
		parallel = 1
	}

	parsed := make([][]Row, len(files))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(parallel)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			rows, err := ReadFile(path)
			if err != nil {
				return err
			}
			parsed[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &Dataset{Files: files}
	for _, rows := range parsed {
		ds.Rows = append(ds.Rows, rows...)
	}
	return ds, nil
}

// ReadFile parses one results file.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	records, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrSchema, path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for _, col := range RequiredColumns {
		if _, ok := records[0][col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrSchema, path, col)
		}
	}

	name := filepath.Base(path)
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrSchema, name, i+2, err)
		}
		row.Source = name
		row.Line = i + 2
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(rec map[string]string) (Row, error) {
	row := Row{
		TargetClass:  rec[ColTargetClass],
		Criterion:    rec[ColCriterion],
		Patch:        rec[ColPatch],
		ValidPatch:   parseBool(rec[ColValidPatch]),
		Success:      parseBool(rec[ColSuccess]),
		Intermediate: parseBool(rec[ColIntermediate]),
	}

	idx, err := parseIndex(rec[ColIndex])
	if err != nil {
		return Row{}, fmt.Errorf("column %s: %w", ColIndex, err)
	}
	row.Index = idx

	floats := []struct {
		col string
		dst *stats.NullFloat
	}{
		{ColSize, &row.Size},
		{ColBranch, &row.Coverage.Branch},
		{ColLine, &row.Coverage.Line},
		{ColWeakMutation, &row.Coverage.WeakMutation},
		{ColCBranch, &row.Coverage.CBranch},
	}
	for _, fl := range floats {
		v, err := stats.Parse(rec[fl.col])
		if err != nil {
			return Row{}, fmt.Errorf("column %s: %w", fl.col, err)
		}
		*fl.dst = v
	}

	for k, v := range rec {
		if modelled[k] {
			continue
		}
		if row.Extra == nil {
			row.Extra = map[string]string{}
		}
		row.Extra[k] = v
	}
	return row, nil
}

// parseIndex reads a run index as a decimal number. Leading zeros do not
// switch base and whole floats such as "3.0" are accepted.
func parseIndex(s string) (int, error) {
	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("index %q is not a whole number", s)
	}
	return int(f), nil
}

// parseBool accepts True, true, 1 and the other spellings cast knows.
// Missing or unreadable cells are false.
func parseBool(s string) bool {
	b, err := cast.ToBoolE(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return b
}
