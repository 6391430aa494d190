package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_CollisionFreeSummaries(t *testing.T) {
	home := isolateHome(t)

	// Prepare two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	csv := "col1,col2\nA,1\nB,2\nC,3\n"
	if err := os.WriteFile(filepath.Join(d1, "metrics.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write p1: %v", err)
	}
	if err := os.WriteFile(filepath.Join(d2, "metrics.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write p2: %v", err)
	}
	// An unsupported file is reported and skipped, not fatal.
	if err := os.WriteFile(filepath.Join(d2, "metrics.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	outDir := filepath.Join(home, "summaries")
	if _, err := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.*"), "--out-dir", outDir, "--sample-rows", "0", "--quiet"); err != nil {
		t.Fatalf("analyze-batch failed: %v", err)
	}

	b1 := filepath.Join(outDir, "metrics.summary.md")
	b2 := filepath.Join(outDir, "metrics__2.summary.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing summary %s: %v", p, err)
		}
		// Assert sample rows are suppressed (no HEAD AND SAMPLE ROWS section)
		if strings.Contains(string(body), "[HEAD AND SAMPLE ROWS]") {
			t.Fatalf("expected no sample rows in %s", p)
		}
		if !strings.Contains(string(body), "Shape: (3, 2)") {
			t.Fatalf("unexpected summary in %s:\n%s", p, body)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "metrics__3.summary.md")); !os.IsNotExist(err) {
		t.Fatalf("unsupported file should not produce a summary")
	}
}

func TestAnalyzeBatch_YAMLFormat(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "one.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n2,4\n3,7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	outDir := filepath.Join(home, "out")
	if _, err := runCmd(t, "analyze-batch", path, "--out-dir", outDir, "-f", "yaml", "--column", "y", "--quiet"); err != nil {
		t.Fatalf("analyze-batch failed: %v", err)
	}
	body, err := os.ReadFile(filepath.Join(outDir, "one.summary.yaml"))
	if err != nil {
		t.Fatalf("read yaml summary: %v", err)
	}
	for _, want := range []string{"summary_statistics:", "selected_column: \"y\"", "outliers:"} {
		if !strings.Contains(string(body), want) && !strings.Contains(string(body), strings.ReplaceAll(want, `"`, "")) {
			t.Fatalf("expected %q in yaml:\n%s", want, body)
		}
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := isolateHome(t)
	if _, err := runCmd(t, "analyze-batch", filepath.Join(home, "nothing*.csv")); err == nil {
		t.Fatalf("expected error when no files match")
	}
}
