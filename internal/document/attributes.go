package document

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Attributes is the set of attribute key/value pairs carried by a rune.
// An absent key and an empty value mean the same thing: the attribute is not set.
// Values are treated as immutable; every modifier returns a copy.
type Attributes map[string]string

// Get returns the value for key and whether it is set.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is set.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// With returns a copy of a with key set to value. An empty value removes the key.
func (a Attributes) With(key, value string) Attributes {
	if value == "" {
		return a.Without(key)
	}
	out := a.Clone()
	out[key] = value
	return out
}

// Without returns a copy of a with key removed.
func (a Attributes) Without(key string) Attributes {
	out := a.Clone()
	delete(out, key)
	return out
}

// Clone returns a shallow copy that is never nil.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	maps.Copy(out, a)
	return out
}

// Equal reports whether both sets hold exactly the same pairs.
func (a Attributes) Equal(b Attributes) bool {
	return maps.Equal(a, b)
}

// Keys returns the set keys in sorted order.
func (a Attributes) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// compact drops keys holding empty values.
func (a Attributes) compact() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// canonical renders a stable string identity for the set, used by the pool.
func (a Attributes) canonical() string {
	var sb strings.Builder
	for _, k := range a.Keys() {
		sb.WriteString(k)
		sb.WriteByte(0)
		sb.WriteString(a[k])
		sb.WriteByte(0)
	}
	return sb.String()
}

// Pool interns attribute sets so that every rune only stores a number.
// Numbers are never reused; the pool only grows.
type Pool struct {
	mu          sync.RWMutex
	numToAttrib []Attributes
	attribToNum map[string]int
}

// NewPool creates a pool whose entry 0 is the empty attribute set.
func NewPool() *Pool {
	p := &Pool{attribToNum: make(map[string]int)}
	p.Put(nil)
	return p
}

// Put returns the number for attrs, adding it to the pool if absent.
func (p *Pool) Put(attrs Attributes) int {
	attrs = attrs.compact()
	key := attrs.canonical()

	p.mu.RLock()
	num, ok := p.attribToNum[key]
	p.mu.RUnlock()
	if ok {
		return num
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if num, ok := p.attribToNum[key]; ok {
		return num
	}
	num = len(p.numToAttrib)
	p.numToAttrib = append(p.numToAttrib, attrs)
	p.attribToNum[key] = num
	return num
}

// Get returns the attribute set stored under num, or nil when num is unknown.
func (p *Pool) Get(num int) Attributes {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if num < 0 || num >= len(p.numToAttrib) {
		return nil
	}
	return p.numToAttrib[num]
}
