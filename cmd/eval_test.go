package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/vision-lines/pkg/hocr"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

func evalFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "receipt.json", receiptResponse)
	writeFile(t, dir, "receipt.txt", "TOTAL\n12.50\n")
	writeFile(t, dir, "receipt.hocr", hocr.Render(&segment.Result{
		Lines: []segment.Line{{Text: "TOTAL"}, {Text: "12.60"}},
	}))
	writeFile(t, dir, "rows.csv", "response,transcript\n"+
		"receipt.json,receipt.txt\n"+
		"receipt.json,receipt.hocr\n"+
		"missing.json,receipt.txt\n"+
		"receipt.json\n")
	return dir
}

func TestProcessEvaluation(t *testing.T) {
	dir := evalFixtures(t)

	tests := []struct {
		name             string
		rows             []int
		expectedAccuracy []float64
	}{
		{"all rows", nil, []float64{1.0, 0.5}},
		{"hocr transcript only", []int{1}, []float64{0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := processEvaluation(EvalConfig{
				CSVPath:  filepath.Join(dir, "rows.csv"),
				Dir:      dir,
				TestRows: tt.rows,
			})
			if err != nil {
				t.Fatalf("processEvaluation() error = %v", err)
			}
			if len(results) != len(tt.expectedAccuracy) {
				t.Fatalf("processEvaluation() returned %d results, want %d", len(results), len(tt.expectedAccuracy))
			}
			for i, r := range results {
				if diff := r.WordAccuracy - tt.expectedAccuracy[i]; diff > 0.01 || diff < -0.01 {
					t.Errorf("results[%d].WordAccuracy = %.3f, want %.3f", i, r.WordAccuracy, tt.expectedAccuracy[i])
				}
				if r.Lines != 2 || r.Reconstructed != "TOTAL\n12.50" {
					t.Errorf("results[%d] reconstructed %d lines: %q", i, r.Lines, r.Reconstructed)
				}
			}
		})
	}
}

func TestProcessEvaluationNoRows(t *testing.T) {
	dir := evalFixtures(t)
	_, err := processEvaluation(EvalConfig{
		CSVPath:  filepath.Join(dir, "rows.csv"),
		Dir:      dir,
		TestRows: []int{2},
	})
	if err == nil {
		t.Error("processEvaluation() expected an error when no row succeeds")
	}
}

func TestReadTranscript(t *testing.T) {
	dir := evalFixtures(t)

	text, err := readTranscript(filepath.Join(dir, "receipt.hocr"))
	if err != nil {
		t.Fatalf("readTranscript() error = %v", err)
	}
	if text != "TOTAL\n12.60" {
		t.Errorf("readTranscript() = %q", text)
	}

	if _, err := readTranscript(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("readTranscript() expected an error for a missing file")
	}
}

func TestEvalConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.yaml")
	summary := EvalSummary{
		Config: EvalConfig{
			CSVPath:       "rows.csv",
			Dir:           "fixtures",
			TestRows:      []int{0, 2},
			XMax:          2400,
			PaddingFactor: 0.5,
			LegacyCorner:  true,
			Timestamp:     "2025-01-01_00-00-00",
		},
		Results: []EvalResult{{Identifier: "receipt.json"}},
	}
	if err := saveEvalResults(summary, path); err != nil {
		t.Fatalf("saveEvalResults() error = %v", err)
	}

	config, err := loadEvalConfig(path)
	if err != nil {
		t.Fatalf("loadEvalConfig() error = %v", err)
	}
	if config.CSVPath != "rows.csv" || config.XMax != 2400 || !config.LegacyCorner || len(config.TestRows) != 2 {
		t.Errorf("loadEvalConfig() = %+v", config)
	}
	if config.Timestamp == summary.Config.Timestamp {
		t.Error("loadEvalConfig() should refresh the timestamp")
	}
}

func TestSavedResultsInlineMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.yaml")
	r := EvalResult{Identifier: "receipt.json"}
	r.WordAccuracy = 0.5
	if err := saveEvalResults(EvalSummary{Results: []EvalResult{r}}, path); err != nil {
		t.Fatal(err)
	}
	text, err := readTextFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "    word_accuracy: 0.5") {
		t.Errorf("metrics should be inlined into each result:\n%s", text)
	}
}

func TestEvalConfigOptions(t *testing.T) {
	tests := []struct {
		name     string
		config   EvalConfig
		expected segment.Config
	}{
		{
			name:     "zero values keep defaults",
			config:   EvalConfig{},
			expected: segment.DefaultConfig(),
		},
		{
			name:   "overrides",
			config: EvalConfig{XMin: 5, XMax: 900, PaddingFactor: 0.4, LegacyCorner: true},
			expected: segment.Config{
				XMin: 5, XMax: 900, PaddingFactor: 0.4, LegacyCorner: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got segment.Config
			for _, opt := range tt.config.options() {
				opt(&got)
			}
			if got != tt.expected {
				t.Errorf("options() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
