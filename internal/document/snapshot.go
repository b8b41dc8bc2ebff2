package document

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOutOfRange is returned when a position or range falls outside the text.
var ErrOutOfRange = errors.New("position out of range")

// Snapshot is an immutable view of the document: text, per-rune attributes and
// the selection. All read queries go through a Snapshot so that a reader never
// observes a half-applied change.
type Snapshot struct {
	pool    *Pool
	schema  *Schema
	text    []rune
	attrs   []int
	sel     Selection
	version uint64
}

// Len returns the number of runes in the document.
func (s *Snapshot) Len() int { return len(s.text) }

// Text returns the whole document text.
func (s *Snapshot) Text() string { return string(s.text) }

// Slice returns the text covered by r.
func (s *Snapshot) Slice(r Range) string {
	if s.checkRange(r) != nil {
		return ""
	}
	return string(s.text[r.Start:r.End])
}

// Version increases with every committed change.
func (s *Snapshot) Version() uint64 { return s.version }

// Schema returns the schema the document validates attributes against.
func (s *Snapshot) Schema() *Schema { return s.schema }

// Selection returns the current selection.
func (s *Snapshot) Selection() Selection { return s.sel.clone() }

// AttributesAt returns the attributes of the rune starting at p, i.e. the rune
// between p and p+1. Positions outside the text have no attributes.
func (s *Snapshot) AttributesAt(p Position) Attributes {
	if p < 0 || int(p) >= len(s.text) {
		return nil
	}
	return s.pool.Get(s.attrs[p])
}

// AttributeBefore returns the value of key on the rune ending at p.
func (s *Snapshot) AttributeBefore(p Position, key string) (string, bool) {
	return s.AttributesAt(p - 1).Get(key)
}

// AttributeAfter returns the value of key on the rune starting at p.
func (s *Snapshot) AttributeAfter(p Position, key string) (string, bool) {
	return s.AttributesAt(p).Get(key)
}

// SelectionAttributes returns the attributes text typed at the selection
// would receive. For a caret these are taken from the rune before it, or from
// the rune after it when the caret is at the start of the text. For an
// expanded selection they are the attributes of its first rune.
func (s *Snapshot) SelectionAttributes() Attributes {
	return s.attributesFor(s.sel)
}

func (s *Snapshot) attributesFor(sel Selection) Attributes {
	if len(sel.Ranges) == 0 || len(s.text) == 0 {
		return Attributes{}
	}
	if sel.IsCollapsed() {
		p := sel.First()
		if p > 0 {
			return s.AttributesAt(p - 1).Clone()
		}
		return s.AttributesAt(p).Clone()
	}
	for _, r := range sel.Ranges {
		if !r.IsCollapsed() {
			return s.AttributesAt(r.Start).Clone()
		}
	}
	return Attributes{}
}

// CheckAttributeInSelection reports whether key may be set somewhere in sel.
// A caret checks the attributes it would type with; an expanded selection
// passes as soon as one covered rune allows the attribute.
func (s *Snapshot) CheckAttributeInSelection(sel Selection, key string) bool {
	if sel.IsCollapsed() {
		return s.schema.Allowed(key, s.attributesFor(sel))
	}
	for _, r := range sel.Ranges {
		for p := r.Start; p < r.End; p++ {
			if s.schema.Allowed(key, s.AttributesAt(p)) {
				return true
			}
		}
	}
	return false
}

// ValidRanges splits ranges into the maximal sub-ranges on which key is
// allowed. Disallowed runes are left out; collapsed input ranges yield nothing.
func (s *Snapshot) ValidRanges(ranges []Range, key string) []Range {
	var out []Range
	for _, r := range ranges {
		start := Position(-1)
		for p := r.Start; p < r.End; p++ {
			ok := s.schema.Allowed(key, s.AttributesAt(p))
			switch {
			case ok && start < 0:
				start = p
			case !ok && start >= 0:
				out = append(out, Range{Start: start, End: p})
				start = -1
			}
		}
		if start >= 0 {
			out = append(out, Range{Start: start, End: r.End})
		}
	}
	return out
}

// Run is a maximal span of text sharing the same attribute value for a key.
type Run struct {
	Range Range
	Value string
}

// Runs lists the attributed runs for key, skipping text where key is unset.
func (s *Snapshot) Runs(key string) []Run {
	var out []Run
	for p := 0; p < len(s.text); {
		v, ok := s.AttributesAt(Position(p)).Get(key)
		if !ok {
			p++
			continue
		}
		end := p + 1
		for end < len(s.text) {
			if w, _ := s.AttributesAt(Position(end)).Get(key); w != v {
				break
			}
			end++
		}
		out = append(out, Run{Range: Range{Start: Position(p), End: Position(end)}, Value: v})
		p = end
	}
	return out
}

func (s *Snapshot) checkPosition(p Position) error {
	if p < 0 || int(p) > len(s.text) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrOutOfRange, p, len(s.text))
	}
	return nil
}

func (s *Snapshot) checkRange(r Range) error {
	if r.End < r.Start {
		return fmt.Errorf("%w: %s is reversed", ErrOutOfRange, r)
	}
	if err := s.checkPosition(r.Start); err != nil {
		return err
	}
	return s.checkPosition(r.End)
}

func (s *Snapshot) clone() *Snapshot {
	return &Snapshot{
		pool:    s.pool,
		schema:  s.schema,
		text:    slices.Clone(s.text),
		attrs:   slices.Clone(s.attrs),
		sel:     s.sel.clone(),
		version: s.version,
	}
}
