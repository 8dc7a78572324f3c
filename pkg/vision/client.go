package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// Source runs text detection against the Cloud Vision API.
type Source struct {
	CredentialsFile string
	LanguageHints   []string

	dial func(ctx context.Context, opts ...option.ClientOption) (annotator, error)
}

// New creates a Vision source. An empty credentials file falls back to
// application default credentials.
func New(credentialsFile string) *Source {
	return &Source{
		CredentialsFile: credentialsFile,
		dial: func(ctx context.Context, opts ...option.ClientOption) (annotator, error) {
			return visionapi.NewImageAnnotatorClient(ctx, opts...)
		},
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "vision"
}

// Detect sends the image to the Vision API and converts the text annotations.
func (s *Source) Detect(ctx context.Context, imagePath string) ([]segment.Detection, error) {
	resp, err := s.Annotate(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	return FromResponse(resp)
}

// Annotate returns the raw Vision response for the image.
func (s *Source) Annotate(ctx context.Context, imagePath string) (*visionpb.AnnotateImageResponse, error) {
	content, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	var opts []option.ClientOption
	if s.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}
	client, err := s.dial(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	defer client.Close()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: content},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_TEXT_DETECTION}},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: s.LanguageHints,
				},
			},
		},
	}

	slog.Debug("Sending image to Vision", "image", imagePath, "bytes", len(content))
	batch, err := client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	if len(batch.GetResponses()) == 0 {
		return nil, ErrNoText
	}

	resp := batch.GetResponses()[0]
	slog.Info("Vision text detection completed", "image", imagePath, "annotations", len(resp.GetTextAnnotations()))
	return resp, nil
}
