package segment

import (
	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// InvertAxis replaces every Y coordinate with yMax - Y, in place.
// Applying it twice with the same yMax restores the input.
func InvertAxis(detections []Detection, yMax int) {
	for i := range detections {
		for j := range detections[i].Vertices {
			detections[i].Vertices[j].Y = yMax - detections[i].Vertices[j].Y
		}
	}
}

// MaxY returns the largest Y of the given vertices.
func MaxY(vertices []geometry.Point) int {
	yMax := vertices[0].Y
	for _, v := range vertices[1:] {
		yMax = max(yMax, v.Y)
	}
	return yMax
}

// validate checks the shape of the detections before anything is computed.
func validate(detections []Detection) error {
	if len(detections) == 0 {
		return malformed("no aggregate annotation")
	}
	if n := len(detections[0].Vertices); n < 4 {
		return malformed("aggregate annotation has %d vertices", n)
	}
	for i, d := range detections[1:] {
		if n := len(d.Vertices); n < 4 {
			return malformed("word %d %q has %d vertices", i, d.Description, n)
		}
		if d.Description == "" {
			return malformed("word %d has an empty description", i)
		}
	}
	return nil
}

// clone deep copies detections so normalization never touches caller data.
func clone(detections []Detection) []Detection {
	out := make([]Detection, len(detections))
	for i, d := range detections {
		out[i] = Detection{
			Description: d.Description,
			Vertices:    append([]geometry.Point(nil), d.Vertices...),
		}
	}
	return out
}

func quadOf(vertices []geometry.Point) geometry.Quad {
	var q geometry.Quad
	copy(q[:], vertices)
	return q
}
