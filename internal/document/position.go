package document

import "fmt"

// Position is a rune offset into the document text. Offset 0 sits before the
// first rune, offset Len() after the last one.
type Position int

// Compare returns -1, 0 or +1 depending on whether p is before, equal to or after q.
func (p Position) Compare(q Position) int {
	switch {
	case p < q:
		return -1
	case p > q:
		return 1
	}
	return 0
}

// Before reports whether p is strictly before q.
func (p Position) Before(q Position) bool { return p < q }

// After reports whether p is strictly after q.
func (p Position) After(q Position) bool { return p > q }

// Range is a contiguous region of the document, defined by start and end
// positions with Start <= End.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewRange returns the range between a and b, ordering them if needed.
func NewRange(a, b Position) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Collapsed returns the empty range at p.
func Collapsed(p Position) Range { return Range{Start: p, End: p} }

// IsCollapsed reports whether the range is empty.
func (r Range) IsCollapsed() bool { return r.Start == r.End }

// Len returns the number of runes covered by the range.
func (r Range) Len() int { return int(r.End - r.Start) }

// Contains returns true if the range contains position p.
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Selection is one or more ranges. A single collapsed range is a caret.
type Selection struct {
	Ranges []Range `json:"ranges"`
}

// Caret returns a collapsed selection at p.
func Caret(p Position) Selection {
	return Selection{Ranges: []Range{Collapsed(p)}}
}

// Select returns a selection over the given ranges.
func Select(ranges ...Range) Selection {
	return Selection{Ranges: append([]Range(nil), ranges...)}
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return len(s.Ranges) == 1 && s.Ranges[0].IsCollapsed()
}

// First returns the start of the first range, or 0 for an empty selection.
func (s Selection) First() Position {
	if len(s.Ranges) == 0 {
		return 0
	}
	return s.Ranges[0].Start
}

// Equal reports whether both selections cover the same ranges in the same order.
func (s Selection) Equal(o Selection) bool {
	if len(s.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range s.Ranges {
		if s.Ranges[i] != o.Ranges[i] {
			return false
		}
	}
	return true
}

func (s Selection) clone() Selection {
	return Selection{Ranges: append([]Range(nil), s.Ranges...)}
}
