// Package segment rebuilds text lines from word level OCR annotations.
//
// The input follows the Google Cloud Vision textAnnotations layout: the first
// detection holds the full text with line breaks and a polygon around all of
// it, every following detection is a single word in reading order. The
// pipeline inverts the Y axis, stitches words back into the textual lines of
// the aggregate, grows a padded band around every line and folds lines that
// sit inside another line's band into that line.
package segment

import (
	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// Detection is a recognized text span and its bounding polygon.
type Detection struct {
	Description string           `json:"description" yaml:"description"`
	Vertices    []geometry.Point `json:"vertices" yaml:"vertices"`
}

// MergedLine is a textual line of the aggregate with the corners of its first
// and last word.
type MergedLine struct {
	Description string
	Quad        geometry.Quad
	// BigQuad is the padded band, nil until BuildBoundingQuads runs.
	BigQuad *geometry.QuadF
	// Words are the indexes of the word detections consumed for the line,
	// counted from the first word (the aggregate is not counted).
	Words []int
}

// Match records that Fragment lies entirely inside Container's band.
type Match struct {
	Container int
	Fragment  int
	Count     int
}

// Combination is the container to fragment relation produced by Combine.
type Combination struct {
	// Matches is indexed by container line.
	Matches  [][]Match
	Consumed []bool
}

// Line is a reconstructed line with its extent in source image coordinates.
type Line struct {
	Text   string        `json:"text" yaml:"text"`
	Bounds geometry.Rect `json:"bounds" yaml:"bounds"`
	// Parts lists the merged line indexes folded into this line, the
	// container first.
	Parts []int `json:"parts" yaml:"parts"`
}

// Result is the outcome of Segment.
type Result struct {
	Lines  []Line       `json:"lines" yaml:"lines"`
	Merged []MergedLine `json:"-" yaml:"-"`
	YMax   int          `json:"y_max" yaml:"y_max"`
}

// Texts returns the text of every line.
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		texts[i] = l.Text
	}
	return texts
}
