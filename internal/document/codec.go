package document

import (
	"encoding/json"
	"fmt"
	"io"
)

// runJSON is one stretch of text sharing a single attribute set.
type runJSON struct {
	Text       string     `json:"text"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type documentJSON struct {
	Runs      []runJSON           `json:"runs"`
	Selection []Range             `json:"selection,omitempty"`
	Schema    map[string][]string `json:"schema,omitempty"`
}

// MarshalJSON encodes the snapshot as runs of identically attributed text,
// the selection and the schema rules.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := documentJSON{
		Runs:      []runJSON{},
		Selection: s.sel.clone().Ranges,
		Schema:    s.schema.Rules(),
	}
	for start := 0; start < len(s.text); {
		end := start + 1
		for end < len(s.text) && s.attrs[end] == s.attrs[start] {
			end++
		}
		attrs := s.pool.Get(s.attrs[start])
		if len(attrs) == 0 {
			attrs = nil
		}
		doc.Runs = append(doc.Runs, runJSON{Text: string(s.text[start:end]), Attributes: attrs})
		start = end
	}
	return json.Marshal(doc)
}

// Decode reads a document previously written by Snapshot.MarshalJSON.
// A missing selection becomes a caret at the start of the text.
func Decode(r io.Reader) (*Model, error) {
	var doc documentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	schema := NewSchema()
	for key, on := range doc.Schema {
		schema.Disallow(key, on...)
	}

	m := New(schema)
	err := m.Change(func(w *Writer) error {
		for _, run := range doc.Runs {
			if _, err := w.InsertText(run.Text, run.Attributes, Position(w.Len())); err != nil {
				return err
			}
		}
		if len(doc.Selection) > 0 {
			return w.SetSelection(doc.Selection...)
		}
		return w.SetSelection(Collapsed(0))
	})
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return m, nil
}
