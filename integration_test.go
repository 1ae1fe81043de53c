//go:build integration

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into a temp dir.
func buildBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "repairstats")
	c := exec.Command("go", "build", "-o", bin, ".")
	if out, err := c.CombinedOutput(); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	return bin
}

// createFixtureResults writes one full BRANCH run and one MANUAL run.
func createFixtureResults(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	lines := []string{"Index,TARGET_CLASS,criterion,Size,BRANCH_Coverage,LINE_Coverage,WEAKMUTATION_Coverage,CBRANCH_Coverage,patch,validpatch,success,intermediate"}
	for i := 0; i < 80; i++ {
		lines = append(lines, fmt.Sprintf("%d,locogp.SortInsertion,BRANCH,%d,1,1,1,1,| ins-%d,True,%t,False", i, 4-i/20, i, i%3 == 0))
		lines = append(lines, fmt.Sprintf("%d,locogp.SortInsertion,BRANCH,2,1,1,1,1,| ins-%d-gen,True,True,True", i, i))
	}
	for i := 0; i < 20; i++ {
		lines = append(lines, fmt.Sprintf("%d,locogp.SortInsertion,MANUAL,,1,1,1,1,| man-%d,True,True,False", i, i))
	}
	if err := os.WriteFile(filepath.Join(dir, "results.csv"), []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestAnalyseIntegration(t *testing.T) {
	if os.Getenv("REPAIRSTATS_INTEGRATION_TESTS") == "" {
		t.Skip("set REPAIRSTATS_INTEGRATION_TESTS=1 to run integration tests")
	}

	bin := buildBinary(t)
	resultsDir := createFixtureResults(t)
	outDir := t.TempDir()

	c := exec.Command(bin, "analyse", resultsDir, "100",
		"--summary", filepath.Join(outDir, "summary.csv"),
		"--runs", filepath.Join(outDir, "runs.csv"),
		"--sqlite", filepath.Join(outDir, "results.sqlite"))
	out, err := c.Output()
	if err != nil {
		t.Fatalf("analyse failed: %v", err)
	}

	for _, name := range []string{"summary.csv", "runs.csv", "results.sqlite"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if got := strings.Count(string(out), `\begin{tabular}`); got != 3 {
		t.Errorf("expected 3 tables on stdout, got %d:\n%s", got, out)
	}
	if !strings.Contains(string(out), `SortInsertion & 14 & 1--2`) {
		t.Errorf("missing SortInsertion program row:\n%s", out)
	}

	c = exec.Command(bin, "validate", resultsDir)
	if out, err := c.CombinedOutput(); err != nil {
		t.Errorf("validate failed: %v: %s", err, out)
	}
}
