// Package store exports aggregation results to a SQLite database for ad-hoc
// querying.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signalnine/repairstats/internal/aggregate"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS aggregates (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	target_class            TEXT NOT NULL,
	criterion               TEXT NOT NULL,
	size                    REAL,
	sample                  INTEGER NOT NULL,
	branch_coverage         REAL,
	line_coverage           REAL,
	weakmutation_coverage   REAL,
	cbranch_coverage        REAL,
	patch_found             INTEGER NOT NULL,
	non_overfitting         INTEGER NOT NULL,
	inter_patch_found       INTEGER NOT NULL,
	inter_non_overfitting   INTEGER NOT NULL,
	ratio_mean              REAL,
	ratio_median            REAL,
	non_overfit_ratio       REAL,
	inter_non_overfit_ratio REAL
);
CREATE TABLE IF NOT EXISTS runs (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	target_class            TEXT NOT NULL,
	criterion               TEXT NOT NULL,
	size                    REAL,
	sample                  INTEGER NOT NULL,
	branch_coverage         REAL,
	line_coverage           REAL,
	weakmutation_coverage   REAL,
	cbranch_coverage        REAL,
	patch_found             INTEGER NOT NULL,
	non_overfitting         INTEGER NOT NULL,
	inter_patch_found       INTEGER NOT NULL,
	inter_non_overfitting   INTEGER NOT NULL,
	gi_run                  INTEGER NOT NULL,
	inter_non_overfit_ratio REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_aggregates_setting ON aggregates(target_class, criterion, sample);
`

// Store wraps a SQLite database holding one aggregation result.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its parent directory.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored tables with res.
func (s *Store) Save(res *aggregate.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"aggregates", "runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	aggStmt, err := tx.Prepare(`INSERT INTO aggregates (
		target_class, criterion, size, sample,
		branch_coverage, line_coverage, weakmutation_coverage, cbranch_coverage,
		patch_found, non_overfitting, inter_patch_found, inter_non_overfitting,
		ratio_mean, ratio_median, non_overfit_ratio, inter_non_overfit_ratio
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare aggregates insert: %w", err)
	}
	defer aggStmt.Close()
	for _, r := range res.Records {
		_, err := aggStmt.Exec(
			r.TargetClass, r.Criterion, r.Size, r.Sample,
			r.BranchCoverage, r.LineCoverage, r.WeakMutationCoverage, r.CBranchCoverage,
			r.PatchFound, r.NonOverfitting, r.InterPatchFound, r.InterNonOverfitting,
			r.RatioMean, r.RatioMedian, r.NonOverfitRatio, r.InterNonOverfitRatio,
		)
		if err != nil {
			return fmt.Errorf("insert aggregate %s/%s/%d: %w", r.TargetClass, r.Criterion, r.Sample, err)
		}
	}

	runStmt, err := tx.Prepare(`INSERT INTO runs (
		target_class, criterion, size, sample,
		branch_coverage, line_coverage, weakmutation_coverage, cbranch_coverage,
		patch_found, non_overfitting, inter_patch_found, inter_non_overfitting,
		gi_run, inter_non_overfit_ratio
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare runs insert: %w", err)
	}
	defer runStmt.Close()
	for _, r := range res.Runs {
		_, err := runStmt.Exec(
			r.TargetClass, r.Criterion, r.Size, r.Sample,
			r.BranchCoverage, r.LineCoverage, r.WeakMutationCoverage, r.CBranchCoverage,
			r.PatchFound, r.NonOverfitting, r.InterPatchFound, r.InterNonOverfitting,
			r.Run, r.InterNonOverfitRatio,
		)
		if err != nil {
			return fmt.Errorf("insert run %s/%s/%d: %w", r.TargetClass, r.Criterion, r.Run, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Records reads the aggregates table back in insertion order.
func (s *Store) Records() ([]aggregate.Record, error) {
	rows, err := s.db.Query(`SELECT
		target_class, criterion, size, sample,
		branch_coverage, line_coverage, weakmutation_coverage, cbranch_coverage,
		patch_found, non_overfitting, inter_patch_found, inter_non_overfitting,
		ratio_mean, ratio_median, non_overfit_ratio, inter_non_overfit_ratio
		FROM aggregates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	var out []aggregate.Record
	for rows.Next() {
		var r aggregate.Record
		if err := rows.Scan(
			&r.TargetClass, &r.Criterion, &r.Size, &r.Sample,
			&r.BranchCoverage, &r.LineCoverage, &r.WeakMutationCoverage, &r.CBranchCoverage,
			&r.PatchFound, &r.NonOverfitting, &r.InterPatchFound, &r.InterNonOverfitting,
			&r.RatioMean, &r.RatioMedian, &r.NonOverfitRatio, &r.InterNonOverfitRatio,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCount returns the number of stored run records.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
