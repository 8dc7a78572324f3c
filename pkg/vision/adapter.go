// Package vision turns Google Cloud Vision text detection results into
// segment detections.
package vision

import (
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
	"github.com/lehigh-university-libraries/vision-lines/pkg/segment"
)

// ErrNoText is returned when a response carries no text annotations.
var ErrNoText = errors.New("response contains no text annotations")

// FromAnnotations converts text annotations, aggregate first, into detections.
// Missing polygons become empty vertex lists and are rejected by the segmenter.
func FromAnnotations(annotations []*visionpb.EntityAnnotation) []segment.Detection {
	detections := make([]segment.Detection, 0, len(annotations))
	for _, a := range annotations {
		d := segment.Detection{Description: a.GetDescription()}
		for _, v := range a.GetBoundingPoly().GetVertices() {
			d.Vertices = append(d.Vertices, geometry.Point{X: int(v.GetX()), Y: int(v.GetY())})
		}
		detections = append(detections, d)
	}
	return detections
}

// FromResponse converts a single image response.
func FromResponse(resp *visionpb.AnnotateImageResponse) ([]segment.Detection, error) {
	if st := resp.GetError(); st != nil && st.GetCode() != 0 {
		return nil, fmt.Errorf("vision error %d: %s", st.GetCode(), st.GetMessage())
	}
	if len(resp.GetTextAnnotations()) == 0 {
		return nil, ErrNoText
	}
	return FromAnnotations(resp.GetTextAnnotations()), nil
}

// LoadFile reads a saved Vision response. Both the batch envelope
// ({"responses": [...]}) and a bare image response are accepted.
func LoadFile(path string) ([]*visionpb.AnnotateImageResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}
	return Parse(data)
}

// Parse decodes a Vision response in its JSON form.
func Parse(data []byte) ([]*visionpb.AnnotateImageResponse, error) {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}

	var batch visionpb.BatchAnnotateImagesResponse
	if err := opts.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}
	if len(batch.GetResponses()) > 0 {
		return batch.GetResponses(), nil
	}

	var single visionpb.AnnotateImageResponse
	if err := opts.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}
	return []*visionpb.AnnotateImageResponse{&single}, nil
}

// LoadDetections reads a saved response and returns the detections of its
// first image.
func LoadDetections(path string) ([]segment.Detection, error) {
	responses, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return FromResponse(responses[0])
}
