//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"

	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// Detect recognizes the image and returns the full text plus word boxes.
func (s *Source) Detect(ctx context.Context, imagePath string) ([]segment.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.Language); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", s.Language, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	words := make([]WordBox, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, WordBox{Text: b.Word, Box: b.Box})
	}
	slog.Debug("Tesseract recognition completed", "image", imagePath, "word_count", len(words))

	return Detections(text, words), nil
}
