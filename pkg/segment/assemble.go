package segment

import (
	"strings"

	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// Assemble emits the lines that were not consumed, in order. A line with
// matches is written as a pair with each of its fragments, the fragment
// going after the container when its left corner is further right.
//
// TODO: with more than one fragment the pairs are simply concatenated; order
// all fragments and the container by left corner X instead.
func Assemble(lines []MergedLine, c Combination) []Line {
	var out []Line
	for i, line := range lines {
		if c.Consumed[i] {
			continue
		}

		l := Line{
			Text:   line.Description,
			Bounds: line.Quad.Bounds(),
			Parts:  []int{i},
		}
		if len(c.Matches[i]) > 0 {
			var sb strings.Builder
			for _, m := range c.Matches[i] {
				fragment := lines[m.Fragment]
				if fragment.Quad[0].X > line.Quad[0].X {
					sb.WriteString(line.Description + " " + fragment.Description)
				} else {
					sb.WriteString(fragment.Description + " " + line.Description)
				}
				l.Bounds = union(l.Bounds, fragment.Quad.Bounds())
				l.Parts = append(l.Parts, m.Fragment)
			}
			l.Text = sb.String()
		}
		out = append(out, l)
	}
	return out
}

func union(a, b geometry.Rect) geometry.Rect {
	return geometry.Rect{
		Min: geometry.Point{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y)},
		Max: geometry.Point{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y)},
	}
}
