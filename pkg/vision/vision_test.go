package vision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

const receiptJSON = `{
  "textAnnotations": [
    {
      "locale": "en",
      "description": "TOTAL\n12.50\n",
      "boundingPoly": {"vertices": [{"x": 10, "y": 100}, {"x": 60, "y": 100}, {"x": 60, "y": 140}, {"x": 10, "y": 140}]}
    },
    {
      "description": "TOTAL",
      "boundingPoly": {"vertices": [{"x": 10, "y": 100}, {"x": 60, "y": 100}, {"x": 60, "y": 110}, {"x": 10, "y": 110}]}
    },
    {
      "description": "12.50",
      "boundingPoly": {"vertices": [{"x": 10, "y": 130}, {"x": 60, "y": 130}, {"x": 60, "y": 140}, {"x": 10, "y": 140}]}
    }
  ],
  "fullTextAnnotation": {"text": "TOTAL\n12.50\n"}
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"single response", receiptJSON},
		{"batch envelope", `{"responses": [` + receiptJSON + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(responses) != 1 {
				t.Fatalf("Parse() returned %d responses, want 1", len(responses))
			}

			detections, err := FromResponse(responses[0])
			if err != nil {
				t.Fatalf("FromResponse() error = %v", err)
			}
			if len(detections) != 3 {
				t.Fatalf("FromResponse() returned %d detections, want 3", len(detections))
			}
			expected := segment.Detection{
				Description: "12.50",
				Vertices:    []geometry.Point{{X: 10, Y: 130}, {X: 60, Y: 130}, {X: 60, Y: 140}, {X: 10, Y: 140}},
			}
			if !reflect.DeepEqual(detections[2], expected) {
				t.Errorf("detections[2] = %+v, want %+v", detections[2], expected)
			}

			lines, err := segment.ReconstructLines(detections)
			if err != nil {
				t.Fatalf("ReconstructLines() error = %v", err)
			}
			if !reflect.DeepEqual(lines, []string{"TOTAL", "12.50"}) {
				t.Errorf("ReconstructLines() = %q", lines)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("Parse() expected an error for invalid JSON")
	}
}

func TestFromAnnotationsOmittedZeroCoordinates(t *testing.T) {
	responses, err := Parse([]byte(`{"textAnnotations": [{"description": "a", "boundingPoly": {"vertices": [{}, {"x": 5}, {"x": 5, "y": 3}, {"y": 3}]}}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	detections := FromAnnotations(responses[0].GetTextAnnotations())
	expected := []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}, {X: 0, Y: 3}}
	if !reflect.DeepEqual(detections[0].Vertices, expected) {
		t.Errorf("Vertices = %v, want %v", detections[0].Vertices, expected)
	}
}

func TestFromResponseErrors(t *testing.T) {
	if _, err := FromResponse(&visionpb.AnnotateImageResponse{}); !errors.Is(err, ErrNoText) {
		t.Errorf("FromResponse() error = %v, want %v", err, ErrNoText)
	}

	responses, err := Parse([]byte(`{"error": {"code": 3, "message": "Bad image data."}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = FromResponse(responses[0])
	if err == nil || !strings.Contains(err.Error(), "Bad image data.") {
		t.Errorf("FromResponse() error = %v, want the API message", err)
	}
}

type fakeAnnotator struct {
	req    *visionpb.BatchAnnotateImagesRequest
	resp   *visionpb.BatchAnnotateImagesResponse
	closed bool
}

func (f *fakeAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	f.req = req
	return f.resp, nil
}

func (f *fakeAnnotator) Close() error {
	f.closed = true
	return nil
}

func TestSourceDetect(t *testing.T) {
	responses, err := Parse([]byte(receiptJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	imagePath := filepath.Join(t.TempDir(), "receipt.png")
	if err := os.WriteFile(imagePath, []byte("fake image"), 0644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{Responses: responses}}
	var dialOpts int
	s := New("creds.json")
	s.LanguageHints = []string{"en"}
	s.dial = func(ctx context.Context, opts ...option.ClientOption) (annotator, error) {
		dialOpts = len(opts)
		return fake, nil
	}

	if s.Name() != "vision" {
		t.Errorf("Name() = %q, want vision", s.Name())
	}

	detections, err := s.Detect(context.Background(), imagePath)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(detections) != 3 {
		t.Errorf("Detect() returned %d detections, want 3", len(detections))
	}
	if dialOpts != 1 {
		t.Errorf("dial received %d options, want the credentials file option", dialOpts)
	}
	if !fake.closed {
		t.Error("client was not closed")
	}

	req := fake.req.GetRequests()[0]
	if string(req.GetImage().GetContent()) != "fake image" {
		t.Errorf("image content = %q", req.GetImage().GetContent())
	}
	if req.GetFeatures()[0].GetType() != visionpb.Feature_TEXT_DETECTION {
		t.Errorf("feature = %v, want TEXT_DETECTION", req.GetFeatures()[0].GetType())
	}
	if !reflect.DeepEqual(req.GetImageContext().GetLanguageHints(), []string{"en"}) {
		t.Errorf("language hints = %v", req.GetImageContext().GetLanguageHints())
	}
}

func TestSourceDetectMissingImage(t *testing.T) {
	s := New("")
	if _, err := s.Detect(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Detect() expected an error for a missing image")
	}
}
