package segment

import (
	"fmt"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// ReconstructLines returns the text lines of the detections, top to bottom.
// detections[0] must be the aggregate annotation.
func ReconstructLines(detections []Detection, opts ...Option) ([]string, error) {
	result, err := Segment(detections, opts...)
	if err != nil {
		return nil, err
	}
	return result.Texts(), nil
}

// Segment runs the full pipeline and keeps the geometry of every line. The
// input is left untouched.
func Segment(detections []Detection, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)

	if err := validate(detections); err != nil {
		return nil, err
	}

	data := clone(detections)
	yMax := MaxY(data[0].Vertices)
	InvertAxis(data, yMax)

	textLines := SplitLines(data[0].Description)
	words := data[1:]

	merged, err := Reassemble(textLines, words)
	if err != nil {
		return nil, fmt.Errorf("reassembling lines: %w", err)
	}
	cfg.Logger.Debug("Reassembled lines", "text_lines", len(textLines)-1, "merged_lines", len(merged), "word_count", len(words))
	if consumed := consumedWords(merged); consumed < len(words) {
		cfg.Logger.Debug("Words left over after reassembly", "unused", len(words)-consumed)
	}

	if err := BuildBoundingQuads(merged, cfg); err != nil {
		return nil, fmt.Errorf("building line bands: %w", err)
	}

	combination := Combine(merged)
	lines := Assemble(merged, combination)
	cfg.Logger.Debug("Combined lines", "merged_lines", len(merged), "output_lines", len(lines))

	for i := range lines {
		lines[i].Bounds = restore(lines[i].Bounds, yMax)
	}

	return &Result{Lines: lines, Merged: merged, YMax: yMax}, nil
}

func consumedWords(merged []MergedLine) int {
	n := 0
	for _, m := range merged {
		n += len(m.Words)
	}
	return n
}

// restore maps a rectangle from the inverted axis back to image coordinates.
func restore(r geometry.Rect, yMax int) geometry.Rect {
	return geometry.Rect{
		Min: geometry.Point{X: r.Min.X, Y: yMax - r.Max.Y},
		Max: geometry.Point{X: r.Max.X, Y: yMax - r.Min.Y},
	}
}
