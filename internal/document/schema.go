package document

import "slices"

// Schema decides which attributes may be applied to which text. A rule
// Disallow(key, on) forbids setting key on any rune that carries attribute on,
// e.g. no internal links inside inline code.
type Schema struct {
	disallowed map[string][]string
}

// NewSchema returns a schema that allows every attribute everywhere.
func NewSchema() *Schema {
	return &Schema{disallowed: make(map[string][]string)}
}

// Disallow forbids key on runes carrying any of the given attributes.
// It returns the schema for chaining.
func (s *Schema) Disallow(key string, on ...string) *Schema {
	for _, o := range on {
		if !slices.Contains(s.disallowed[key], o) {
			s.disallowed[key] = append(s.disallowed[key], o)
		}
	}
	return s
}

// Rules returns a copy of the disallow rules, keyed by attribute.
func (s *Schema) Rules() map[string][]string {
	out := make(map[string][]string, len(s.disallowed))
	for k, v := range s.disallowed {
		out[k] = slices.Clone(v)
	}
	return out
}

// Allowed reports whether key may be set on text carrying attrs.
func (s *Schema) Allowed(key string, attrs Attributes) bool {
	if s == nil {
		return true
	}
	for _, on := range s.disallowed[key] {
		if attrs.Has(on) {
			return false
		}
	}
	return true
}
