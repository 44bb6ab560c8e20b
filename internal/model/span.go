package model

import (
	"fmt"
)

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p comes strictly before o in document order.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}

	return p.Column < o.Column
}

// Span is a half-open source range: Start is inclusive, End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a Span from raw line/column pairs.
func NewSpan(startLine, startCol, endLine, endCol int) Span {
	return Span{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// Valid reports whether the span is non-degenerate: positions are 1-based and
// Start does not come after End. Zero-width spans are valid.
func (s Span) Valid() bool {
	if s.Start.Line < 1 || s.Start.Column < 1 || s.End.Line < 1 || s.End.Column < 1 {
		return false
	}

	return !s.End.Before(s.Start)
}

// Overlaps reports whether s and o share at least one position. A zero-width
// span overlaps a range that contains its start.
func (s Span) Overlaps(o Span) bool {
	if s.Start == s.End {
		return !s.Start.Before(o.Start) && s.Start.Before(o.End)
	}

	if o.Start == o.End {
		return o.Overlaps(s)
	}

	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Lines returns the number of source lines the span touches.
func (s Span) Lines() int {
	return s.End.Line - s.Start.Line + 1
}

// String formats the span as startLine:startCol-endLine:endCol.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// ParseSpan parses the startLine:startCol-endLine:endCol form produced by String.
func ParseSpan(text string) (Span, error) {
	var s Span

	_, err := fmt.Sscanf(text, "%d:%d-%d:%d", &s.Start.Line, &s.Start.Column, &s.End.Line, &s.End.Column)
	if err != nil {
		return Span{}, fmt.Errorf("invalid span %q: %w", text, err)
	}

	if !s.Valid() {
		return Span{}, fmt.Errorf("invalid span %q: end precedes start", text)
	}

	return s, nil
}

// MarshalYAML encodes the span in its compact string form.
func (s Span) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes the compact string form.
func (s *Span) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}

	parsed, err := ParseSpan(text)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
