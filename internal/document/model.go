package document

import (
	"sync"
	"sync/atomic"
)

// Listener is called after a change has been committed, with the new snapshot.
type Listener func(s *Snapshot)

// Model holds the attributed text of one editing session. Reads go through
// Snapshot; every mutation goes through Change, which commits atomically.
type Model struct {
	mu      sync.Mutex // serializes Change
	current atomic.Pointer[Snapshot]

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates an empty document validated against schema. A nil schema
// allows every attribute everywhere.
func New(schema *Schema) *Model {
	if schema == nil {
		schema = NewSchema()
	}
	m := &Model{listeners: make(map[int]Listener)}
	m.current.Store(&Snapshot{
		pool:   NewPool(),
		schema: schema,
		sel:    Caret(0),
	})
	return m
}

// Snapshot returns the latest committed state.
func (m *Model) Snapshot() *Snapshot {
	return m.current.Load()
}

// Change runs fn against a private working copy of the document. When fn
// returns nil and modified anything, the copy replaces the current state in one
// step and listeners are notified. When fn returns an error nothing is
// committed and the error is returned. Change must not be called from inside fn.
func (m *Model) Change(fn func(w *Writer) error) error {
	m.mu.Lock()
	w := &Writer{Snapshot: m.current.Load().clone()}
	if err := fn(w); err != nil {
		m.mu.Unlock()
		return err
	}
	if !w.dirty {
		m.mu.Unlock()
		return nil
	}
	w.version++
	committed := w.Snapshot
	m.current.Store(committed)
	m.mu.Unlock()

	m.notify(committed)
	return nil
}

// SetSelection moves the selection, e.g. in response to the user clicking.
func (m *Model) SetSelection(sel Selection) error {
	return m.Change(func(w *Writer) error {
		return w.SetSelection(sel.Ranges...)
	})
}

// OnChange registers l to be called after every committed change. The
// returned function removes the listener.
func (m *Model) OnChange(l Listener) func() {
	m.lmu.Lock()
	defer m.lmu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.lmu.Lock()
		defer m.lmu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Model) notify(s *Snapshot) {
	m.lmu.Lock()
	ls := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.lmu.Unlock()

	for _, l := range ls {
		l(s)
	}
}
