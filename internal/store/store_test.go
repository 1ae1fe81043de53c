package store_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/stats"
	"github.com/signalnine/repairstats/internal/store"
	"github.com/stretchr/testify/require"
)

func sampleResult() *aggregate.Result {
	setting := aggregate.Setting{
		TargetClass: "locogp.SortBubble", Criterion: "LINE",
		Size: stats.Some(7), Sample: 100, LineCoverage: stats.Some(0.9),
	}
	return &aggregate.Result{
		Records: []aggregate.Record{
			{
				Setting: setting, PatchFound: 2, NonOverfitting: 1, InterPatchFound: 3, InterNonOverfitting: 1,
				RatioMean: stats.Some(0.25), RatioMedian: stats.Some(0.25),
				NonOverfitRatio: stats.Some(0.5), InterNonOverfitRatio: stats.Ratio(1, 3),
			},
			{Setting: aggregate.Setting{TargetClass: "locogp.Triangle", Criterion: "MANUAL", Size: stats.Some(4), Sample: 100}},
		},
		Runs: []aggregate.RunRecord{
			{Setting: setting, PatchFound: 2, NonOverfitting: 1, InterPatchFound: 2, InterNonOverfitting: 1, Run: 4, InterNonOverfitRatio: 0.5},
			{Setting: setting, PatchFound: 2, NonOverfitting: 1, InterPatchFound: 1, Run: 9},
		},
	}
}

func TestSaveAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "results.sqlite")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	res := sampleResult()
	require.NoError(t, s.Save(res))

	got, err := s.Records()
	require.NoError(t, err)
	if diff := cmp.Diff(res.Records, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	n, err := s.RunCount()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.sqlite")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(sampleResult()))
	require.NoError(t, s.Save(&aggregate.Result{Records: sampleResult().Records[:1]}))

	got, err := s.Records()
	require.NoError(t, err)
	require.Len(t, got, 1)
	n, err := s.RunCount()
	require.NoError(t, err)
	require.Zero(t, n)
}
