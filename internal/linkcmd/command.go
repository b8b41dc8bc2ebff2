package linkcmd

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/document"
	"github.com/joestump/linkeditor/internal/metrics"
)

// State is the observable state of the command. Title and Keyword are
// derived from the lookup service and are never written to the document.
type State struct {
	// Value is the link id at the start of the selection, empty when none.
	Value string
	// Title is the resolved short description or an error placeholder.
	Title     string
	KeywordID string
	Keyword   string
	// IsEnabled reports whether the schema allows a link at the selection.
	IsEnabled bool
}

// EventKind distinguishes the notifications a Command publishes.
type EventKind int

const (
	// EventStateChanged follows a refresh that changed the state.
	EventStateChanged EventKind = iota
	// EventRefreshed follows every completed title or keyword resolution,
	// whether or not its result was still current.
	EventRefreshed
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventRefreshed:
		return "refreshed"
	}
	return "unknown"
}

// Event carries the command state at the time it was published.
type Event struct {
	Kind  EventKind
	State State
}

type track int

const (
	trackTitle track = iota
	trackKeyword
)

func (t track) String() string {
	if t == trackTitle {
		return "title"
	}
	return "keyword"
}

const subscriberBuffer = 32

// Command applies, updates and removes internal links in a document. One
// Command lives for the whole editing session of its model.
//
// Refresh and Execute never wait for the lookup service. Resolutions run in
// their own goroutines and are tagged with a sequence number per track; a
// result is only applied when no newer refresh has moved that track since it
// was requested.
type Command struct {
	model    *document.Model
	resolver *Resolver
	log      *zap.SugaredLogger

	mu          sync.Mutex
	state       State
	seq         [2]uint64
	subscribers map[int]chan Event
	nextSub     int
	closed      bool

	inflight sync.WaitGroup
	stop     func()
}

// NewCommand creates a Command for model. It refreshes whenever the model
// commits a change and once right away.
func NewCommand(model *document.Model, resolver *Resolver, log *zap.SugaredLogger) *Command {
	c := &Command{
		model:       model,
		resolver:    resolver,
		log:         log,
		subscribers: make(map[int]chan Event),
	}
	c.stop = model.OnChange(func(*document.Snapshot) { c.Refresh() })
	c.Refresh()
	return c
}

// State returns a copy of the current state.
func (c *Command) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel of state notifications and a function that
// ends the subscription. Slow subscribers miss events rather than block the
// command; every event carries the full state.
func (c *Command) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// Refresh re-reads the selection. IsEnabled follows the schema; the link and
// keyword ids are read from the selection attributes. Each id that changed
// starts a resolution of its display text, or clears it when the id is gone.
func (c *Command) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	// Read under c.mu so concurrent commits cannot apply out of order.
	snap := c.model.Snapshot()
	enabled := snap.CheckAttributeInSelection(snap.Selection(), LinkIDAttribute)
	attrs := snap.SelectionAttributes()
	linkID, _ := attrs.Get(LinkIDAttribute)
	keywordID, _ := attrs.Get(KeywordIDAttribute)
	before := c.state

	c.state.IsEnabled = enabled
	if c.state.Value != linkID {
		c.state.Value = linkID
		c.seq[trackTitle]++
		if linkID != "" {
			c.resolve(trackTitle, linkID, c.seq[trackTitle])
		} else {
			c.state.Title = ""
		}
	}
	if c.state.KeywordID != keywordID {
		c.state.KeywordID = keywordID
		c.seq[trackKeyword]++
		if keywordID != "" {
			c.resolve(trackKeyword, keywordID, c.seq[trackKeyword])
		} else {
			c.state.Keyword = ""
		}
	}

	if c.state != before {
		c.publish(EventStateChanged)
	}
}

// resolve starts a resolution for id on track t. Callers hold c.mu.
func (c *Command) resolve(t track, id string, seq uint64) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		var res Result
		if t == trackTitle {
			res = c.resolver.ResolveTitle(context.Background(), id)
		} else {
			res = c.resolver.ResolveKeyword(context.Background(), id)
		}
		c.complete(t, seq, res)
	}()
}

func (c *Command) complete(t track, seq uint64, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.state.Value
	if t == trackKeyword {
		current = c.state.KeywordID
	}
	if c.closed || seq != c.seq[t] || res.ID != current {
		metrics.ResolutionsTotal.WithLabelValues(t.String(), "stale").Inc()
		c.log.Debugw("dropping stale resolution", "kind", t.String(), "id", res.ID, "current", current)
		c.publish(EventRefreshed)
		return
	}

	if t == trackTitle {
		c.state.Title = res.Text
	} else {
		c.state.Keyword = res.Text
	}
	outcome := "applied"
	if res.Err != nil {
		outcome = "failed"
	}
	metrics.ResolutionsTotal.WithLabelValues(t.String(), outcome).Inc()
	c.publish(EventRefreshed)
}

// publish sends the current state to every subscriber. Callers hold c.mu.
func (c *Command) publish(kind EventKind) {
	ev := Event{Kind: kind, State: c.state}
	for id, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			c.log.Debugw("subscriber full, dropping event", "subscriber", id, "event", kind.String())
		}
	}
}

// Execute applies the link inside a single document change.
//
// With a caret inside an existing link, both attributes are overwritten on
// the whole link and the link becomes the selection. With a caret elsewhere
// and a non-empty linkID, linkText is inserted at the caret carrying the
// caret's attributes plus the link attributes, and becomes the selection.
// With a caret elsewhere and an empty linkID nothing happens. With an
// expanded selection each attribute is set on the parts of the selection
// where the schema allows it, computed separately for each attribute.
//
// An empty linkText inserts nothing and leaves the caret where it was. An
// empty linkID or keywordID removes that attribute. Execute never fails:
// schema-disallowed text is skipped and document errors are logged.
func (c *Command) Execute(linkID, linkText, keywordID string) {
	mode := "selection"
	err := c.model.Change(func(w *document.Writer) error {
		sel := w.Selection()
		if !sel.IsCollapsed() {
			for _, r := range w.ValidRanges(sel.Ranges, LinkIDAttribute) {
				if err := w.SetAttribute(LinkIDAttribute, linkID, r); err != nil {
					return err
				}
			}
			for _, r := range w.ValidRanges(sel.Ranges, KeywordIDAttribute) {
				if err := w.SetAttribute(KeywordIDAttribute, keywordID, r); err != nil {
					return err
				}
			}
			return nil
		}

		pos := sel.First()
		attrs := w.SelectionAttributes()
		if current, ok := attrs.Get(LinkIDAttribute); ok {
			mode = "update"
			r := FindAttributeRange(pos, LinkIDAttribute, current, w)
			if err := w.SetAttribute(LinkIDAttribute, linkID, r); err != nil {
				return err
			}
			if err := w.SetAttribute(KeywordIDAttribute, keywordID, r); err != nil {
				return err
			}
			return w.SetSelection(r)
		}

		if linkID == "" {
			mode = "noop"
			return nil
		}
		mode = "insert"
		attrs = attrs.With(LinkIDAttribute, linkID).With(KeywordIDAttribute, keywordID)
		r, err := w.InsertText(linkText, attrs, pos)
		if err != nil {
			return err
		}
		return w.SetSelection(r)
	})
	if err != nil {
		mode = "failed"
		c.log.Errorw("link command failed", "link_id", linkID, "keyword_id", keywordID, "error", err)
	}
	metrics.ExecutesTotal.WithLabelValues(mode).Inc()
}

// Unlink removes the link and keyword attributes from the link under the
// caret, or from the whole expanded selection.
func (c *Command) Unlink() {
	c.Execute("", "", "")
}

// Wait blocks until every resolution started so far has completed. It must
// not run concurrently with Refresh.
func (c *Command) Wait() {
	c.inflight.Wait()
}

// Close detaches the command from its model and ends all subscriptions.
// Resolutions still in flight complete but are discarded.
func (c *Command) Close() {
	c.stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}
