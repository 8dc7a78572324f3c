package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/vision-lines/pkg/hocr"
	"github.com/lehigh-university-libraries/vision-lines/pkg/metrics"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
	"github.com/lehigh-university-libraries/vision-lines/pkg/vision"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
)

type EvalConfig struct {
	CSVPath       string  `json:"csv_path" yaml:"csv_path"`
	Dir           string  `json:"dir" yaml:"dir"`
	TestRows      []int   `json:"rows" yaml:"rows"`
	XMin          int     `json:"x_min" yaml:"x_min"`
	XMax          int     `json:"x_max" yaml:"x_max"`
	PaddingFactor float64 `json:"padding" yaml:"padding"`
	LegacyCorner  bool    `json:"legacy_corner" yaml:"legacy_corner"`
	Timestamp     string  `json:"timestamp" yaml:"timestamp"`
}

type EvalResult struct {
	Identifier       string `json:"identifier" yaml:"identifier"`
	ResponsePath     string `json:"response_path" yaml:"response_path"`
	TranscriptPath   string `json:"transcript_path" yaml:"transcript_path"`
	Lines            int    `json:"lines" yaml:"lines"`
	Reconstructed    string `json:"reconstructed" yaml:"reconstructed"`
	metrics.Accuracy `yaml:",inline"`
}

type EvalSummary struct {
	Config  EvalConfig   `json:"config" yaml:"config"`
	Results []EvalResult `json:"results" yaml:"results"`
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate line reconstruction against ground truth transcripts",
	Long: `Evaluate line reconstruction by comparing the rebuilt lines of saved
Vision responses with ground truth transcripts.

This command expects a CSV file with 2 columns:
  response,transcript

Where:
  - response: path to a saved Vision API JSON response
  - transcript: path to the ground truth transcript (plain text or hOCR)

You can either provide individual flags or use a previous evaluation config file.`,
	RunE: runEval,
}

var (
	evalCSVPath    string
	evalConfigPath string
	dir            string
	rows           []int
)

func init() {
	RootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalCSVPath, "csv", "c", "", "Path to CSV file with evaluation data")
	evalCmd.Flags().StringVar(&evalConfigPath, "config", "", "Path to previous evaluation config file to rerun")
	evalCmd.Flags().StringVar(&dir, "dir", "./", "Prepend your CSV file paths with a directory")
	evalCmd.Flags().IntSliceVar(&rows, "rows", []int{}, "A list of row numbers to run the test on")
	evalCmd.Flags().IntVar(&xMin, "x-min", envInt("SEGMENT_X_MIN", segment.DefaultXMin), "Left end of the line bands")
	evalCmd.Flags().IntVar(&xMax, "x-max", envInt("SEGMENT_X_MAX", segment.DefaultXMax), "Right end of the line bands")
	evalCmd.Flags().Float64Var(&padding, "padding", envFloat("SEGMENT_PADDING", segment.DefaultPaddingFactor), "Band padding as a fraction of the line height")
	evalCmd.Flags().BoolVar(&legacyCorner, "legacy-corner", false, "Build bands with the legacy bottom-right corner")

	evalCmd.MarkFlagsOneRequired("csv", "config")
	evalCmd.MarkFlagsMutuallyExclusive("csv", "config")
}

func runEval(cmd *cobra.Command, args []string) error {
	var config EvalConfig
	var err error

	if evalConfigPath != "" {
		config, err = loadEvalConfig(evalConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Printf("Loaded configuration from %s\n", evalConfigPath)
	} else {
		config = EvalConfig{
			CSVPath:       evalCSVPath,
			Dir:           dir,
			XMin:          xMin,
			XMax:          xMax,
			PaddingFactor: padding,
			LegacyCorner:  legacyCorner,
			Timestamp:     time.Now().Format("2006-01-02_15-04-05"),
		}
		testRows, err := cmd.Flags().GetIntSlice("rows")
		if err != nil {
			return fmt.Errorf("failed to fetch rows flag: %w", err)
		}
		config.TestRows = testRows
	}

	evalsDir := "evals"
	if err := os.MkdirAll(evalsDir, 0755); err != nil {
		return fmt.Errorf("failed to create evals directory: %w", err)
	}

	results, err := processEvaluation(config)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	summary := EvalSummary{
		Config:  config,
		Results: results,
	}

	outputPath := filepath.Join(evalsDir, fmt.Sprintf("eval_%s.yaml", config.Timestamp))
	if err := saveEvalResults(summary, outputPath); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nEvaluation completed. Results saved to: %s\n", outputPath)
	printSummaryStats(results)

	return nil
}

func loadEvalConfig(configPath string) (EvalConfig, error) {
	var summary EvalSummary

	data, err := os.ReadFile(configPath)
	if err != nil {
		return EvalConfig{}, err
	}

	if err := yaml.Unmarshal(data, &summary); err != nil {
		return EvalConfig{}, err
	}

	// Update timestamp for rerun
	summary.Config.Timestamp = time.Now().Format("2006-01-02_15-04-05")

	return summary.Config, nil
}

func (c EvalConfig) options() []segment.Option {
	cfg := segment.DefaultConfig()
	if c.XMin != 0 || c.XMax != 0 {
		cfg.XMin, cfg.XMax = c.XMin, c.XMax
	}
	if c.PaddingFactor != 0 {
		cfg.PaddingFactor = c.PaddingFactor
	}
	cfg.LegacyCorner = c.LegacyCorner
	return []segment.Option{segment.WithConfig(cfg)}
}

func processEvaluation(config EvalConfig) ([]EvalResult, error) {
	file, err := os.Open(config.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	// Skip header row if present
	dataRows := records
	if strings.EqualFold(strings.TrimSpace(records[0][0]), "response") {
		dataRows = records[1:]
	}

	var results []EvalResult
	for i, row := range dataRows {
		if len(config.TestRows) > 0 && !slices.Contains(config.TestRows, i) {
			slog.Debug("Skipping row", "row", i+1)
			continue
		}
		if len(row) < 2 {
			slog.Warn("Insufficient columns", "row", i+1)
			continue
		}

		result, err := processRow(row, config)
		if err != nil {
			slog.Error("Error processing row", "row", i+1, "err", err)
			continue
		}

		results = append(results, result)

		printRowResult(result)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no rows were successfully processed")
	}

	return results, nil
}

func processRow(row []string, config EvalConfig) (EvalResult, error) {
	responsePath := filepath.Join(config.Dir, strings.TrimSpace(row[0]))
	transcriptPath := filepath.Join(config.Dir, strings.TrimSpace(row[1]))

	groundTruth, err := readTranscript(transcriptPath)
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to read transcript: %w", err)
	}

	detections, err := vision.LoadDetections(responsePath)
	if err != nil {
		return EvalResult{}, err
	}

	result, err := segment.Segment(detections, config.options()...)
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to segment %s: %w", responsePath, err)
	}

	reconstructed := strings.Join(result.Texts(), "\n")

	return EvalResult{
		Identifier:     filepath.Base(responsePath),
		ResponsePath:   responsePath,
		TranscriptPath: transcriptPath,
		Lines:          len(result.Lines),
		Reconstructed:  reconstructed,
		Accuracy:       metrics.Calculate(groundTruth, reconstructed),
	}, nil
}

// readTranscript returns the transcript text, one line per hOCR line when
// the transcript is hOCR.
func readTranscript(path string) (string, error) {
	text, err := readTextFile(path)
	if err != nil {
		return "", err
	}
	if !hocr.IsHOCR(text) {
		return text, nil
	}

	lines, err := hocr.ParseLineTexts(text)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func readTextFile(path string) (string, error) {
	// Check if it's a URL
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("unexpected status fetching %s: %s", path, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func saveEvalResults(summary EvalSummary, outputPath string) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, data, 0644)
}

func printRowResult(result EvalResult) {
	fmt.Printf("\n=== Results for %s ===\n", result.Identifier)
	fmt.Printf("Response: %s\n", result.ResponsePath)
	fmt.Printf("Transcript: %s\n", result.TranscriptPath)
	fmt.Printf("Lines: %d\n", result.Lines)
	fmt.Printf("Character Similarity: %.3f\n", result.CharacterSimilarity)
	fmt.Printf("Word Similarity: %.3f\n", result.WordSimilarity)
	fmt.Printf("Word Accuracy: %.3f\n", result.WordAccuracy)
	fmt.Printf("Word Error Rate: %.3f\n", result.WordErrorRate)
	fmt.Printf("Total Words (Original): %d\n", result.TotalWordsOriginal)
	fmt.Printf("Total Words (Transcribed): %d\n", result.TotalWordsTranscribed)
	fmt.Printf("Correct Words: %d\n", result.CorrectWords)
	fmt.Printf("Substitutions: %d\n", result.Substitutions)
	fmt.Printf("Deletions: %d\n", result.Deletions)
	fmt.Printf("Insertions: %d\n", result.Insertions)
}

func printSummaryStats(results []EvalResult) {
	if len(results) == 0 {
		return
	}

	var totalCharSim, totalWordSim, totalWordAcc, totalWER float64

	for _, result := range results {
		totalCharSim += result.CharacterSimilarity
		totalWordSim += result.WordSimilarity
		totalWordAcc += result.WordAccuracy
		totalWER += result.WordErrorRate
	}

	count := float64(len(results))

	fmt.Printf("\n=== SUMMARY STATISTICS ===\n")
	fmt.Printf("Total Evaluations: %d\n", len(results))
	fmt.Printf("Average Character Similarity: %.3f\n", totalCharSim/count)
	fmt.Printf("Average Word Similarity: %.3f\n", totalWordSim/count)
	fmt.Printf("Average Word Accuracy: %.3f\n", totalWordAcc/count)
	fmt.Printf("Average Word Error Rate: %.3f\n", totalWER/count)
}
