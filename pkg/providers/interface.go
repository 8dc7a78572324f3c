package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// Source interface that all word detection backends must implement
type Source interface {
	// Detect runs OCR on the image and returns the aggregate annotation
	// followed by the word annotations in reading order
	Detect(ctx context.Context, imagePath string) ([]segment.Detection, error)
	// Name returns the source's name
	Name() string
}

// Closer is an optional interface for sources holding resources
type Closer interface {
	Close() error
}

// Segment detects words with the source and rebuilds the text lines.
func Segment(ctx context.Context, source Source, imagePath string, opts ...segment.Option) (*segment.Result, error) {
	detections, err := source.Detect(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("%s detection failed: %w", source.Name(), err)
	}
	slog.Info("Detected words", "source", source.Name(), "image", imagePath, "annotations", len(detections))

	return segment.Segment(detections, opts...)
}
