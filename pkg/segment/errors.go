package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned when the detections cannot be processed at all:
	// no aggregate annotation, or a polygon with fewer than four vertices.
	ErrMalformedInput = errors.New("malformed detections")

	// ErrTextGeometryMismatch is returned when the aggregate text and the word
	// annotations disagree.
	ErrTextGeometryMismatch = errors.New("aggregate text does not match word annotations")

	// ErrDegenerateGeometry is returned in strict mode when a line edge is vertical.
	ErrDegenerateGeometry = errors.New("degenerate line geometry")
)

// MismatchError describes the word that could not be placed in a textual line.
type MismatchError struct {
	Line      int
	LineText  string
	Word      int // -1 when the words ran out
	WordText  string
	Remaining string
}

func (e *MismatchError) Error() string {
	if e.Word < 0 {
		return fmt.Sprintf("line %d %q: words exhausted with %q left unmatched", e.Line, e.LineText, e.Remaining)
	}
	return fmt.Sprintf("line %d %q: word %d %q not found in %q", e.Line, e.LineText, e.Word, e.WordText, e.Remaining)
}

func (e *MismatchError) Unwrap() error {
	return ErrTextGeometryMismatch
}

// GeometryError describes a merged line whose edge could not be extrapolated.
type GeometryError struct {
	Line int
	Edge string
	Err  error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("line %d: %s edge: %v", e.Line, e.Edge, e.Err)
}

func (e *GeometryError) Unwrap() []error {
	return []error{ErrDegenerateGeometry, e.Err}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
