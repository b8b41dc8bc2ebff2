package document

import (
	"fmt"
	"slices"
)

// Writer mutates a working copy of the document inside Model.Change. It also
// answers every Snapshot query against the state written so far.
type Writer struct {
	*Snapshot
	dirty bool
}

// SetAttribute sets key to value on every rune in r. An empty value removes
// the attribute. The schema is not consulted; callers use ValidRanges first.
func (w *Writer) SetAttribute(key, value string, r Range) error {
	if err := w.checkRange(r); err != nil {
		return err
	}
	for p := r.Start; p < r.End; p++ {
		next := w.pool.Put(w.pool.Get(w.attrs[p]).With(key, value))
		if next != w.attrs[p] {
			w.attrs[p] = next
			w.dirty = true
		}
	}
	return nil
}

// InsertText inserts text carrying attrs at p and returns the range it now
// occupies. Selection ranges after p are shifted by the inserted length.
func (w *Writer) InsertText(text string, attrs Attributes, p Position) (Range, error) {
	if err := w.checkPosition(p); err != nil {
		return Range{}, err
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return Collapsed(p), nil
	}
	num := w.pool.Put(attrs)
	ids := make([]int, len(runes))
	for i := range ids {
		ids[i] = num
	}
	w.text = slices.Insert(w.text, int(p), runes...)
	w.attrs = slices.Insert(w.attrs, int(p), ids...)

	n := Position(len(runes))
	for i, r := range w.sel.Ranges {
		if r.Start > p {
			r.Start += n
		}
		if r.End > p {
			r.End += n
		}
		w.sel.Ranges[i] = r
	}
	w.dirty = true
	return Range{Start: p, End: p + n}, nil
}

// SetSelection replaces the selection. At least one range is required.
func (w *Writer) SetSelection(ranges ...Range) error {
	if len(ranges) == 0 {
		return fmt.Errorf("set selection: no ranges")
	}
	for _, r := range ranges {
		if err := w.checkRange(r); err != nil {
			return fmt.Errorf("set selection: %w", err)
		}
	}
	sel := Select(ranges...)
	if !sel.Equal(w.sel) {
		w.sel = sel
		w.dirty = true
	}
	return nil
}
