package segment

import (
	"errors"
	"math"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// BuildBoundingQuads computes the padded band of every merged line.
//
// The line height is the taller of its left and right sides. The top edge is
// moved up and the bottom edge down by PaddingFactor of that height, then both
// are extended across [XMin, XMax].
func BuildBoundingQuads(lines []MergedLine, cfg Config) error {
	for i := range lines {
		q := lines[i].Quad
		h := max(q[0].Y-q[3].Y, q[1].Y-q[2].Y)
		pad := float64(h) * cfg.PaddingFactor

		top, err := edgeLine(q[1].ToF(), q[0].ToF(), pad, cfg)
		if err != nil {
			return &GeometryError{Line: i, Edge: "top", Err: err}
		}
		bottom, err := edgeLine(q[2].ToF(), q[3].ToF(), -pad, cfg)
		if err != nil {
			return &GeometryError{Line: i, Edge: "bottom", Err: err}
		}

		big := bandQuad(top, bottom, cfg.LegacyCorner)
		lines[i].BigQuad = &big
	}
	return nil
}

func edgeLine(anchor, other geometry.PointF, shift float64, cfg Config) (geometry.Line, error) {
	anchor.Y += shift
	other.Y += shift

	l, err := geometry.Extrapolate(anchor, other, cfg.XMin, cfg.XMax, cfg.Round)
	if errors.Is(err, geometry.ErrVerticalSegment) && !cfg.StrictGeometry {
		y := anchor.Y
		if cfg.Round {
			y = math.Round(y)
		}
		return geometry.Horizontal(y, cfg.XMin, cfg.XMax), nil
	}
	return l, err
}

func bandQuad(top, bottom geometry.Line, legacy bool) geometry.QuadF {
	third := geometry.PointF{X: float64(bottom.XMax), Y: bottom.YMax}
	if legacy {
		third.X = bottom.YMax
	}
	return geometry.QuadF{
		{X: float64(top.XMin), Y: top.YMin},
		{X: float64(top.XMax), Y: top.YMax},
		third,
		{X: float64(bottom.XMin), Y: bottom.YMin},
	}
}
