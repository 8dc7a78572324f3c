// Package geometry holds the point, quad and line primitives used to reason
// about OCR bounding polygons.
package geometry

import (
	"errors"
	"math"
)

// ErrVerticalSegment is returned when a line cannot be extrapolated because
// both of its points share the same X coordinate.
var ErrVerticalSegment = errors.New("segment is vertical")

// Point is a word corner in integer pixel coordinates
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// PointF is a point of derived geometry
type PointF struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ToF converts the point to floating point coordinates.
func (p Point) ToF() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// Quad is a four corner polygon ordered top-left, top-right, bottom-right,
// bottom-left.
type Quad [4]Point

// QuadF is the floating point counterpart of Quad.
type QuadF [4]PointF

// Rect is an axis aligned rectangle, Min inclusive and Max inclusive.
type Rect struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// Bounds returns the axis aligned rectangle enclosing the quad.
func (q Quad) Bounds() Rect {
	r := Rect{Min: q[0], Max: q[0]}
	for _, p := range q[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// MaxY returns the largest Y coordinate of the quad.
func (q Quad) MaxY() int {
	return q.Bounds().Max.Y
}

// ToF converts the quad to floating point coordinates.
func (q Quad) ToF() QuadF {
	var f QuadF
	for i, p := range q {
		f[i] = p.ToF()
	}
	return f
}

// Scale grows (factor > 1) or shrinks the quad around its centroid.
func (q QuadF) Scale(factor float64) QuadF {
	var cx, cy float64
	for _, p := range q {
		cx += p.X
		cy += p.Y
	}
	cx /= 4
	cy /= 4

	var out QuadF
	for i, p := range q {
		out[i] = PointF{
			X: cx + (p.X-cx)*factor,
			Y: cy + (p.Y-cy)*factor,
		}
	}
	return out
}

// Contains reports whether p lies inside the quad using even-odd ray casting.
// Points on the upper horizontal boundary or the right boundary are outside.
func (q QuadF) Contains(p Point) bool {
	x, y := float64(p.X), float64(p.Y)
	inside := false
	for i, j := 0, len(q)-1; i < len(q); j, i = i, i+1 {
		a, b := q[i], q[j]
		if (a.Y <= y && y < b.Y) || (b.Y <= y && y < a.Y) {
			if x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
				inside = !inside
			}
		}
	}
	return inside
}

// CountInside returns how many corners of q fall inside container.
func CountInside(container QuadF, q Quad) int {
	n := 0
	for _, p := range q {
		if container.Contains(p) {
			n++
		}
	}
	return n
}

// Line is a straight line evaluated at two fixed X positions.
type Line struct {
	XMin int     `json:"x_min" yaml:"x_min"`
	XMax int     `json:"x_max" yaml:"x_max"`
	YMin float64 `json:"y_min" yaml:"y_min"`
	YMax float64 `json:"y_max" yaml:"y_max"`
}

// Extrapolate extends the line through anchor and other across [xMin, xMax].
// A horizontal segment keeps the anchor's Y at both ends.
func Extrapolate(anchor, other PointF, xMin, xMax int, round bool) (Line, error) {
	xDiff := other.X - anchor.X
	if xDiff == 0 {
		return Line{}, ErrVerticalSegment
	}
	gradient := (other.Y - anchor.Y) / xDiff

	var yMin, yMax float64
	if gradient == 0 {
		yMin = anchor.Y
		yMax = anchor.Y
	} else {
		yMin = anchor.Y - gradient*(anchor.X-float64(xMin))
		yMax = anchor.Y + gradient*(float64(xMax)-anchor.X)
	}

	if round {
		yMin = math.Round(yMin)
		yMax = math.Round(yMax)
	}

	return Line{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}, nil
}

// Horizontal returns the line of constant y across [xMin, xMax].
func Horizontal(y float64, xMin, xMax int) Line {
	return Line{XMin: xMin, XMax: xMax, YMin: y, YMax: y}
}
