package segment

import (
	"github.com/lehigh-university-libraries/vision-lines/pkg/geometry"
)

// Combine folds every line whose four corners lie inside an earlier line's
// band into that line. It is a single forward pass: a consumed line is never
// matched again and never acts as a container.
func Combine(lines []MergedLine) Combination {
	c := Combination{
		Matches:  make([][]Match, len(lines)),
		Consumed: make([]bool, len(lines)),
	}

	for i := range lines {
		band := lines[i].BigQuad
		if band == nil || c.Consumed[i] {
			continue
		}
		for k := i + 1; k < len(lines); k++ {
			if c.Consumed[k] {
				continue
			}
			if n := geometry.CountInside(*band, lines[k].Quad); n == len(lines[k].Quad) {
				c.Matches[i] = append(c.Matches[i], Match{Container: i, Fragment: k, Count: n})
				c.Consumed[k] = true
			}
		}
	}

	return c
}
