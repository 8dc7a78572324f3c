// Package tesseract provides word detections from a local Tesseract install.
//
// The gosseract binding needs cgo and libtesseract, so the OCR call is only
// compiled with the "tesseract" build tag:
//
//	go build -tags tesseract
//
// Without the tag Detect returns ErrNotEnabled.
package tesseract

import (
	"image"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// WordBox is a recognized word and its pixel rectangle.
type WordBox struct {
	Text string
	Box  image.Rectangle
}

// Source runs Tesseract on local images.
type Source struct {
	Language string
}

// New creates a Tesseract source for the given language ("eng" when empty).
func New(language string) *Source {
	if language == "" {
		language = "eng"
	}
	return &Source{Language: language}
}

// Name returns the source name
func (s *Source) Name() string {
	return "tesseract"
}

// Detections lays Tesseract output out like a Vision response: the full text
// with a rectangle around every word first, then the words. Empty words are
// dropped.
func Detections(fullText string, words []WordBox) []segment.Detection {
	var area image.Rectangle
	out := []segment.Detection{{Description: fullText}}
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		area = area.Union(w.Box)
		out = append(out, segment.Detection{Description: w.Text, Vertices: vertices(w.Box)})
	}
	out[0].Vertices = vertices(area)
	return out
}

func vertices(r image.Rectangle) []geometry.Point {
	return []geometry.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}
