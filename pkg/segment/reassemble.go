package segment

import (
	"strings"
)

// SplitLines splits the aggregate description into textual lines. The last
// element is whatever follows the final line break and is never a line.
func SplitLines(description string) []string {
	return strings.Split(description, "\n")
}

// Reassemble walks the textual lines in order and consumes, for each of
// them, the next words whose descriptions appear in what is left of the
// line. The first word gives the line its left corners (0 and 3) and the last
// word its right corners (1 and 2). The final element of textLines is the
// remainder after the last line break and is skipped.
func Reassemble(textLines []string, words []Detection) ([]MergedLine, error) {
	var merged []MergedLine
	cursor := 0

	for li := 0; li < len(textLines)-1; li++ {
		text := textLines[li]
		if strings.TrimSpace(text) == "" {
			continue
		}

		line := MergedLine{Description: text}
		remaining := text
		for strings.TrimSpace(remaining) != "" {
			if cursor >= len(words) {
				return nil, &MismatchError{Line: li, LineText: text, Word: -1, Remaining: remaining}
			}

			w := words[cursor]
			idx := strings.Index(remaining, w.Description)
			if idx < 0 {
				return nil, &MismatchError{Line: li, LineText: text, Word: cursor, WordText: w.Description, Remaining: remaining}
			}
			remaining = remaining[idx+len(w.Description):]

			if len(line.Words) == 0 {
				line.Quad = quadOf(w.Vertices)
			}
			line.Words = append(line.Words, cursor)
			cursor++
		}

		last := words[line.Words[len(line.Words)-1]]
		line.Quad[1] = last.Vertices[1]
		line.Quad[2] = last.Vertices[2]
		merged = append(merged, line)
	}

	return merged, nil
}
