package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/config"
	"github.com/signalnine/repairstats/internal/pipeline"
)

const header = "Index,TARGET_CLASS,criterion,Size,BRANCH_Coverage,LINE_Coverage,WEAKMUTATION_Coverage,CBRANCH_Coverage,patch,validpatch,success,intermediate"

func writeResults(t *testing.T, rows int) string {
	t.Helper()
	dir := t.TempDir()
	lines := []string{header}
	for i := 0; i < rows; i++ {
		lines = append(lines, fmt.Sprintf("%d,locogp.Triangle,MANUAL,,1,1,1,1,| tri-%d,True,%t,False", i, i, i%2 == 0))
		lines = append(lines, fmt.Sprintf("%d,locogp.Triangle,MANUAL,3,1,1,1,1,| tri-%d-gen,True,True,True", i, i))
	}
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "results.csv"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestParseIterations(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{"default", []string{"dir"}, pipeline.DefaultIterations, false},
		{"explicit", []string{"dir", "50"}, 50, false},
		{"not a number", []string{"dir", "many"}, 0, true},
		{"zero", []string{"dir", "0"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIterations(tt.args)
			if tt.wantErr {
				if !errors.Is(err, config.ErrConfig) {
					t.Errorf("parseIterations(%v) error = %v, want ErrConfig", tt.args, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseIterations(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestShapeStatus(t *testing.T) {
	tests := []struct {
		name  string
		shape aggregate.GroupShape
		want  string
	}{
		{"intermediate only", aggregate.GroupShape{Intermediate: 3}, "no final rows"},
		{"partial", aggregate.GroupShape{Final: 25, Partial: true}, "partial window"},
		{"extra rows", aggregate.GroupShape{Final: 90, Ignored: 10}, "extra rows ignored"},
		{"whole windows", aggregate.GroupShape{Final: 80}, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shapeStatus(tt.shape); got != tt.want {
				t.Errorf("shapeStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckShapes(t *testing.T) {
	ok := []aggregate.GroupShape{{TargetClass: "locogp.Triangle", Criterion: "MANUAL", Final: 20}}
	if err := checkShapes(ok); err != nil {
		t.Errorf("checkShapes(ok) = %v", err)
	}
	bad := append(ok, aggregate.GroupShape{TargetClass: "locogp.Gcd", Criterion: "LINE", Final: 25, Partial: true})
	if err := checkShapes(bad); !errors.Is(err, aggregate.ErrDataShape) {
		t.Errorf("checkShapes(bad) = %v, want ErrDataShape", err)
	}
}

func TestAnalyseCommand(t *testing.T) {
	dir := writeResults(t, 20)
	out := t.TempDir()
	summary := filepath.Join(out, "summary.csv")

	stdout, err := execute(t, "analyse", dir, "10",
		"--summary", summary,
		"--runs", filepath.Join(out, "runs.csv"),
		"--format", "markdown")
	if err != nil {
		t.Fatalf("analyse: %v", err)
	}
	if _, err := os.Stat(summary); err != nil {
		t.Errorf("summary not written: %v", err)
	}
	for _, want := range []string{"| Triangle |", "| MANUAL |", "1--4"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestAnalyseCommandBadFormat(t *testing.T) {
	_, err := execute(t, "analyse", writeResults(t, 20), "--format", "html",
		"--summary", filepath.Join(t.TempDir(), "summary.csv"))
	if !errors.Is(err, config.ErrConfig) {
		t.Errorf("got %v, want ErrConfig", err)
	}
}

func TestReportCommand(t *testing.T) {
	dir := writeResults(t, 20)
	summary := filepath.Join(t.TempDir(), "out.csv")
	stale := "TARGET_CLASS,criterion,Size,test_suite_sample%,patch_found,non_overfitting,inter_patch_found,inter_non_overfitting\n" +
		"locogp.Triangle,MANUAL,3,100,0,0,8,2\n"
	if err := os.WriteFile(summary, []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := execute(t, "report", dir, summary)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(stdout, `Triangle & 8 & 2 & 0.25 \\`) {
		t.Errorf("report did not use the given summary file:\n%s", stdout)
	}
}

func TestListAndValidateCommands(t *testing.T) {
	stdout, err := execute(t, "list", writeResults(t, 25))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(stdout, "extra rows ignored") {
		t.Errorf("list output missing status:\n%s", stdout)
	}

	if _, err := execute(t, "validate", writeResults(t, 20)); err != nil {
		t.Errorf("validate on whole windows: %v", err)
	}
	if _, err := execute(t, "validate", writeResults(t, 15)); !errors.Is(err, aggregate.ErrDataShape) {
		t.Errorf("validate on partial window = %v, want ErrDataShape", err)
	}
}

func TestAnalyseCommandVerbose(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
	}{
		{"quiet", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			args := []string{"--log-level", "error", "analyse", writeResults(t, 20),
				"--summary", filepath.Join(out, "summary.csv"),
				"--runs", filepath.Join(out, "runs.csv")}
			if tt.verbose {
				args = append(args, "--verbose")
			}
			root := NewRootCmd()
			var stdout, stderr bytes.Buffer
			root.SetOut(&stdout)
			root.SetErr(&stderr)
			root.SetArgs(args)
			if err := root.Execute(); err != nil {
				t.Fatalf("analyse: %v", err)
			}

			got := stderr.String()
			if has := strings.Contains(got, "Intermediate non-overfitting"); has != tt.verbose {
				t.Errorf("totals on stderr = %v, want %v:\n%s", has, tt.verbose, got)
			}
			if strings.Contains(stdout.String(), "Intermediate non-overfitting") {
				t.Errorf("totals leaked to stdout:\n%s", stdout.String())
			}
		})
	}
}
