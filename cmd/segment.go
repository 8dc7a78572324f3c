package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/vision-lines/internal/utils"
	"github.com/lehigh-university-libraries/vision-lines/pkg/hocr"
	"github.com/lehigh-university-libraries/vision-lines/pkg/providers"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
	"github.com/lehigh-university-libraries/vision-lines/pkg/tesseract"
	"github.com/lehigh-university-libraries/vision-lines/pkg/vision"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Rebuild text lines from OCR word annotations",
	Long: `Rebuild the text lines of a page from word level OCR annotations.

Annotations come either from a saved Google Cloud Vision response (--input)
or from running a detection source against an image (--image). Words that the
OCR engine split into separate lines but that sit on the same printed line are
folded back together.

Examples:
  vision-lines segment --input receipt.json
  vision-lines segment --image receipt.jpg --source vision --format hocr -o receipt.hocr`,
	RunE: runSegment,
}

var (
	inputPath       string
	imagePath       string
	source          string
	format          string
	outputPath      string
	credentialsFile string
	language        string
	xMin            int
	xMax            int
	padding         float64
	legacyCorner    bool
	strictGeometry  bool
)

func init() {
	RootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().StringVar(&inputPath, "input", "", "Path to a saved Vision API JSON response")
	segmentCmd.Flags().StringVar(&imagePath, "image", "", "Path to an image to run word detection on")
	segmentCmd.Flags().StringVar(&source, "source", "vision", "Detection source for --image: vision, tesseract")
	segmentCmd.Flags().StringVar(&format, "format", "text", "Output format: text, yaml, hocr")
	segmentCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (prints to stdout if not specified)")
	segmentCmd.Flags().StringVar(&credentialsFile, "credentials", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), "Google service account credentials file")
	segmentCmd.Flags().StringVar(&language, "lang", "eng", "Tesseract language")
	segmentCmd.Flags().IntVar(&xMin, "x-min", envInt("SEGMENT_X_MIN", segment.DefaultXMin), "Left end of the line bands")
	segmentCmd.Flags().IntVar(&xMax, "x-max", envInt("SEGMENT_X_MAX", segment.DefaultXMax), "Right end of the line bands")
	segmentCmd.Flags().Float64Var(&padding, "padding", envFloat("SEGMENT_PADDING", segment.DefaultPaddingFactor), "Band padding as a fraction of the line height")
	segmentCmd.Flags().BoolVar(&legacyCorner, "legacy-corner", false, "Build bands with the legacy bottom-right corner")
	segmentCmd.Flags().BoolVar(&strictGeometry, "strict-geometry", false, "Fail on vertical line edges instead of treating them as horizontal")

	segmentCmd.MarkFlagsMutuallyExclusive("input", "image")
	segmentCmd.MarkFlagsOneRequired("input", "image")
}

func runSegment(cmd *cobra.Command, args []string) error {
	result, err := segmentFromFlags(cmd.Context())
	if err != nil {
		return utils.MaskSensitiveError(err)
	}

	content, err := formatResult(result, format)
	if err != nil {
		return err
	}

	slog.Info("Reconstructed lines", "lines", len(result.Lines), "merged", len(result.Merged))
	return outputResult(cmd.OutOrStdout(), content)
}

func segmentFromFlags(ctx context.Context) (*segment.Result, error) {
	opts := segmentOptions()

	if inputPath != "" {
		detections, err := vision.LoadDetections(inputPath)
		if err != nil {
			return nil, err
		}
		return segment.Segment(detections, opts...)
	}

	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input image file does not exist: %s", imagePath)
	}

	registry := newRegistry()
	defer registry.CloseAll()

	src, err := registry.Get(source)
	if err != nil {
		return nil, err
	}
	return providers.Segment(ctx, src, imagePath, opts...)
}

func newRegistry() *providers.Registry {
	registry := providers.NewRegistry()
	registry.Register(vision.New(credentialsFile))
	registry.Register(tesseract.New(language))
	return registry
}

func segmentOptions() []segment.Option {
	return []segment.Option{
		segment.WithXRange(xMin, xMax),
		segment.WithPaddingFactor(padding),
		segment.WithLegacyCorner(legacyCorner),
		segment.WithStrictGeometry(strictGeometry),
	}
}

func formatResult(result *segment.Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case "text":
		if len(result.Lines) == 0 {
			return "", nil
		}
		return strings.Join(result.Texts(), "\n") + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		return string(data), nil
	case "hocr":
		return hocr.Render(result), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func outputResult(w io.Writer, content string) error {
	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(content), 0644)
	}
	_, err := fmt.Fprint(w, content)
	return err
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring invalid integer", "env", key, "value", v)
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("Ignoring invalid number", "env", key, "value", v)
		return fallback
	}
	return f
}
