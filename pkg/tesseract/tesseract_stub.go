//go:build !tesseract

package tesseract

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// ErrNotEnabled is returned when the binary was built without the
// "tesseract" tag.
var ErrNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

// Detect always fails in builds without Tesseract.
func (s *Source) Detect(ctx context.Context, imagePath string) ([]segment.Detection, error) {
	return nil, ErrNotEnabled
}
