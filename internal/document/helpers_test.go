package document

import "testing"

// newDoc builds a model from alternating text and attribute pairs, e.g.
// newDoc(t, nil, "See ", nil, "Example", Attributes{"link": "42"}).
func newDoc(t *testing.T, schema *Schema, parts ...any) *Model {
	t.Helper()
	m := New(schema)
	err := m.Change(func(w *Writer) error {
		for i := 0; i < len(parts); i += 2 {
			text := parts[i].(string)
			var attrs Attributes
			if parts[i+1] != nil {
				attrs = parts[i+1].(Attributes)
			}
			if _, err := w.InsertText(text, attrs, Position(w.Len())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return m
}
