package linkcmd

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/document"
	"github.com/joestump/linkeditor/internal/locale"
)

// fakeLookup answers from maps. A gate registered for "title:<id>" or
// "keyword:<id>" holds that request until the gate is closed.
type fakeLookup struct {
	mu       sync.Mutex
	titles   map[string]string
	keywords map[string]string
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		titles:   map[string]string{},
		keywords: map[string]string{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeLookup) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLookup) answer(key string, values map[string]string, id string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[key]; err != nil {
		return "", err
	}
	v, ok := values[id]
	if !ok {
		return "", fmt.Errorf("unknown id %q", id)
	}
	return v, nil
}

func (f *fakeLookup) ShortDescription(_ context.Context, id string) (string, error) {
	return f.answer("title:"+id, f.titles, id)
}

func (f *fakeLookup) Keyword(_ context.Context, id string) (string, error) {
	return f.answer("keyword:"+id, f.keywords, id)
}

// buildDoc creates a model from alternating text and attribute arguments.
func buildDoc(t *testing.T, schema *document.Schema, parts ...any) *document.Model {
	t.Helper()
	m := document.New(schema)
	err := m.Change(func(w *document.Writer) error {
		for i := 0; i < len(parts); i += 2 {
			var attrs document.Attributes
			if parts[i+1] != nil {
				attrs = parts[i+1].(document.Attributes)
			}
			if _, err := w.InsertText(parts[i].(string), attrs, document.Position(w.Len())); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return m
}

func link(id string) document.Attributes {
	return document.Attributes{LinkIDAttribute: id}
}

func linkWithKeyword(id, kw string) document.Attributes {
	return document.Attributes{LinkIDAttribute: id, KeywordIDAttribute: kw}
}

func newTestCommand(t *testing.T, m *document.Model, l Lookup) *Command {
	t.Helper()
	return newTestCommandLocale(t, m, l, "en")
}

func newTestCommandLocale(t *testing.T, m *document.Model, l Lookup, lang string) *Command {
	t.Helper()
	log := zap.NewNop().Sugar()
	c := NewCommand(m, NewResolver(l, locale.New(lang), log), log)
	t.Cleanup(func() {
		c.Wait()
		c.Close()
	})
	return c
}

func selectAt(t *testing.T, m *document.Model, sel document.Selection) {
	t.Helper()
	require.NoError(t, m.SetSelection(sel))
}

func attrAt(m *document.Model, p document.Position, key string) string {
	v, _ := m.Snapshot().AttributesAt(p).Get(key)
	return v
}
