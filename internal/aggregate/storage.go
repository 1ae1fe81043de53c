package aggregate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/signalnine/repairstats/internal/config"
)

// WriteRecords writes the summary table. Missing ratios become empty cells.
func WriteRecords(path string, records []Record) error {
	return writeCSV(path, &records)
}

func WriteRuns(path string, runs []RunRecord) error {
	return writeCSV(path, &runs)
}

func writeCSV(path string, rows any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadRecords loads a previously written summary table. Columns it does not
// know, such as a leading index column, are ignored.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: summary file %s not found", config.ErrConfig, path)
		}
		return nil, fmt.Errorf("opening summary: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing summary %s: %w", path, err)
	}
	return records, nil
}
