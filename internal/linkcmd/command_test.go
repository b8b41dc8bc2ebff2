package linkcmd

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/linkeditor/internal/document"
	"github.com/joestump/linkeditor/internal/lookup"
)

func TestExecute_CaretInLinkUpdatesWholeRun(t *testing.T) {
	m := buildDoc(t, nil, "abc", nil, "Example", link("42"), "xyz", nil)
	selectAt(t, m, document.Caret(5))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("99", "ignored", "kw1")

	snap := m.Snapshot()
	assert.Equal(t, "abcExamplexyz", snap.Text(), "text must not change")
	assert.Equal(t, []document.Run{{Range: document.Range{Start: 3, End: 10}, Value: "99"}}, snap.Runs(LinkIDAttribute))
	assert.Equal(t, []document.Run{{Range: document.Range{Start: 3, End: 10}, Value: "kw1"}}, snap.Runs(KeywordIDAttribute))
	assert.True(t, snap.Selection().Equal(document.Select(document.Range{Start: 3, End: 10})), "selection = %v", snap.Selection())
}

func TestExecute_CaretAtLinkEdges(t *testing.T) {
	tests := []struct {
		name  string
		caret document.Position
	}{
		{"right after the link", 10},
		{"document start inside link", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *document.Model
			if tt.caret == 0 {
				m = buildDoc(t, nil, "Example", linkWithKeyword("42", "old"), "xyz", nil)
			} else {
				m = buildDoc(t, nil, "abc", nil, "Example", linkWithKeyword("42", "old"), "xyz", nil)
			}
			selectAt(t, m, document.Caret(tt.caret))
			c := newTestCommand(t, m, newFakeLookup())

			c.Execute("7", "", "")

			runs := m.Snapshot().Runs(LinkIDAttribute)
			require.Len(t, runs, 1)
			assert.Equal(t, "7", runs[0].Value)
			assert.Equal(t, 7, runs[0].Range.Len())
			assert.Empty(t, m.Snapshot().Runs(KeywordIDAttribute), "empty keyword id removes the keyword")
		})
	}
}

func TestExecute_CaretOutsideLinkEmptyIDIsNoop(t *testing.T) {
	m := buildDoc(t, nil, "hello world", nil)
	selectAt(t, m, document.Caret(5))
	c := newTestCommand(t, m, newFakeLookup())
	before := m.Snapshot()

	c.Execute("", "x", "")

	after := m.Snapshot()
	assert.Same(t, before, after, "no-op execute must not commit a change")
	assert.Equal(t, "hello world", after.Text())
}

func TestExecute_CaretOutsideLinkInsertsRun(t *testing.T) {
	bold := document.Attributes{"bold": "true"}
	m := buildDoc(t, nil, "Hello ", nil, "world", bold, "!", nil)
	selectAt(t, m, document.Caret(11))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("42", "Example", "kw1")

	snap := m.Snapshot()
	assert.Equal(t, "Hello worldExample!", snap.Text())
	inserted := document.Range{Start: 11, End: 18}
	assert.True(t, snap.Selection().Equal(document.Select(inserted)), "selection = %v", snap.Selection())
	assert.Equal(t, "Example", snap.Slice(inserted))
	assert.Equal(t, document.Attributes{"bold": "true", LinkIDAttribute: "42", KeywordIDAttribute: "kw1"}, snap.AttributesAt(11), "inserted text carries the attributes before the caret")
	assert.Equal(t, "!", snap.Slice(document.Range{Start: 18, End: 19}))
	assert.Equal(t, []document.Run{{Range: inserted, Value: "42"}}, snap.Runs(LinkIDAttribute))
}

func TestExecute_InsertWithoutKeyword(t *testing.T) {
	m := buildDoc(t, nil, "ab", nil)
	selectAt(t, m, document.Caret(1))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("42", "xy", "")

	snap := m.Snapshot()
	assert.Equal(t, "axyb", snap.Text())
	assert.False(t, snap.AttributesAt(1).Has(KeywordIDAttribute))
	assert.Equal(t, "42", attrAt(m, 2, LinkIDAttribute))
}

func TestExecute_InsertEmptyTextInsertsNothing(t *testing.T) {
	m := buildDoc(t, nil, "ab", nil)
	selectAt(t, m, document.Caret(1))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("42", "", "")

	snap := m.Snapshot()
	assert.Equal(t, "ab", snap.Text())
	assert.Empty(t, snap.Runs(LinkIDAttribute))
	assert.True(t, snap.Selection().Equal(document.Caret(1)))
}

func TestExecute_ExpandedRespectsSchemaPerAttribute(t *testing.T) {
	schema := document.NewSchema().
		Disallow(LinkIDAttribute, "code").
		Disallow(KeywordIDAttribute, "heading")
	m := buildDoc(t, schema,
		"aa", nil,
		"bb", document.Attributes{"code": "go"},
		"cc", document.Attributes{"heading": "1"},
	)
	selectAt(t, m, document.Select(document.Range{Start: 0, End: 6}))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("L", "ignored", "K")

	snap := m.Snapshot()
	assert.Equal(t, "aabbcc", snap.Text())
	assert.Equal(t, []document.Run{
		{Range: document.Range{Start: 0, End: 2}, Value: "L"},
		{Range: document.Range{Start: 4, End: 6}, Value: "L"},
	}, snap.Runs(LinkIDAttribute), "code must stay unlinked")
	assert.Equal(t, []document.Run{
		{Range: document.Range{Start: 0, End: 4}, Value: "K"},
	}, snap.Runs(KeywordIDAttribute), "code still takes the keyword, heading does not")
	assert.True(t, snap.Selection().Equal(document.Select(document.Range{Start: 0, End: 6})))
}

func TestExecute_ExpandedMultipleRanges(t *testing.T) {
	m := buildDoc(t, nil, "abcdefgh", nil)
	selectAt(t, m, document.Select(document.Range{Start: 0, End: 2}, document.Range{Start: 5, End: 7}))
	c := newTestCommand(t, m, newFakeLookup())

	c.Execute("L", "", "")

	assert.Equal(t, []document.Run{
		{Range: document.Range{Start: 0, End: 2}, Value: "L"},
		{Range: document.Range{Start: 5, End: 7}, Value: "L"},
	}, m.Snapshot().Runs(LinkIDAttribute))
}

func TestUnlink(t *testing.T) {
	m := buildDoc(t, nil, "abc", nil, "Example", linkWithKeyword("42", "kw1"), "xyz", nil)
	selectAt(t, m, document.Caret(6))
	c := newTestCommand(t, m, newFakeLookup())

	c.Unlink()

	snap := m.Snapshot()
	assert.Empty(t, snap.Runs(LinkIDAttribute))
	assert.Empty(t, snap.Runs(KeywordIDAttribute))
	assert.True(t, snap.Selection().Equal(document.Select(document.Range{Start: 3, End: 10})))
	assert.Equal(t, "", c.State().Value)
}

func TestRefresh_ResolvesTitleAndKeyword(t *testing.T) {
	l := newFakeLookup()
	l.titles["42"] = "An example page"
	l.keywords["kw1"] = "physics"
	m := buildDoc(t, nil, "abc", nil, "Example", linkWithKeyword("42", "kw1"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(5))
	c.Wait()

	assert.Equal(t, State{
		Value:     "42",
		Title:     "An example page",
		KeywordID: "kw1",
		Keyword:   "physics",
		IsEnabled: true,
	}, c.State())

	selectAt(t, m, document.Caret(1))
	c.Wait()
	assert.Equal(t, State{IsEnabled: true}, c.State(), "leaving the link clears derived fields")
}

func TestRefresh_IsEnabledFollowsSchema(t *testing.T) {
	schema := document.NewSchema().Disallow(LinkIDAttribute, "code")
	m := buildDoc(t, schema, "ab", nil, "x()", document.Attributes{"code": "go"})
	c := newTestCommand(t, m, newFakeLookup())

	selectAt(t, m, document.Caret(4))
	assert.False(t, c.State().IsEnabled)

	selectAt(t, m, document.Caret(1))
	assert.True(t, c.State().IsEnabled)
}

func TestRefresh_IsIdempotent(t *testing.T) {
	l := newFakeLookup()
	l.titles["42"] = "title"
	l.keywords["kw1"] = "kw"
	m := buildDoc(t, nil, "ab ", nil, "link", linkWithKeyword("42", "kw1"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(5))
	c.Wait()
	first := c.State()
	calls := l.callCount()
	require.Equal(t, 2, calls)

	c.Refresh()
	c.Refresh()
	c.Wait()

	assert.Equal(t, first, c.State())
	assert.Equal(t, calls, l.callCount(), "repeated refresh must not start new lookups")
}

func TestRefresh_StaleTitleIsDropped(t *testing.T) {
	l := newFakeLookup()
	l.titles["A"] = "Title A"
	l.titles["B"] = "Title B"
	releaseA := l.gate("title:A")
	m := buildDoc(t, nil, "x ", nil, "aaa", link("A"), " ", nil, "bbb", link("B"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(4))
	require.Equal(t, "A", c.State().Value)

	selectAt(t, m, document.Caret(8))
	require.Equal(t, "B", c.State().Value)
	require.Eventually(t, func() bool { return c.State().Title == "Title B" }, time.Second, 5*time.Millisecond)

	close(releaseA)
	c.Wait()
	assert.Equal(t, "Title B", c.State().Title, "late result for A must not overwrite B")
}

func TestRefresh_StaleResultLosesEvenWhenFirstToComplete(t *testing.T) {
	l := newFakeLookup()
	l.titles["A"] = "Title A"
	l.titles["B"] = "Title B"
	releaseA := l.gate("title:A")
	releaseB := l.gate("title:B")
	m := buildDoc(t, nil, "x ", nil, "aaa", link("A"), " ", nil, "bbb", link("B"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(4))
	selectAt(t, m, document.Caret(8))

	close(releaseB)
	require.Eventually(t, func() bool { return c.State().Title == "Title B" }, time.Second, 5*time.Millisecond)
	close(releaseA)
	c.Wait()
	assert.Equal(t, "Title B", c.State().Title)
}

func TestRefresh_BackAndForthAppliesOnlyLatest(t *testing.T) {
	l := newFakeLookup()
	l.titles["A"] = "Title A"
	l.titles["B"] = "Title B"
	releaseA := l.gate("title:A")
	m := buildDoc(t, nil, "x ", nil, "aaa", link("A"), " ", nil, "bbb", link("B"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(4))
	selectAt(t, m, document.Caret(8))
	selectAt(t, m, document.Caret(4))
	assert.Equal(t, "A", c.State().Value)

	close(releaseA)
	c.Wait()
	assert.Equal(t, "Title A", c.State().Title)
	assert.Equal(t, 3, l.callCount(), "each id change triggers its own lookup")
}

func TestRefresh_KeywordClearedWhileInFlight(t *testing.T) {
	l := newFakeLookup()
	l.titles["42"] = "title"
	l.keywords["kw1"] = "physics"
	release := l.gate("keyword:kw1")
	m := buildDoc(t, nil, "ab ", nil, "with", linkWithKeyword("42", "kw1"), "without", link("42"))
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(5))
	require.Equal(t, "kw1", c.State().KeywordID)

	selectAt(t, m, document.Caret(12))
	require.Equal(t, "", c.State().KeywordID)

	close(release)
	c.Wait()
	assert.Equal(t, "", c.State().Keyword)
	assert.Equal(t, "42", c.State().Value, "link track is independent of the keyword track")
}

func TestRefresh_KeywordWithoutLink(t *testing.T) {
	l := newFakeLookup()
	l.keywords["kw1"] = "physics"
	m := buildDoc(t, nil, "ab ", nil, "orphan", document.Attributes{KeywordIDAttribute: "kw1"})
	c := newTestCommand(t, m, l)

	selectAt(t, m, document.Caret(5))
	c.Wait()

	assert.Equal(t, State{KeywordID: "kw1", Keyword: "physics", IsEnabled: true}, c.State())
}

func TestRefresh_FailuresBecomePlaceholders(t *testing.T) {
	l := newFakeLookup()
	l.errs["title:42"] = &lookup.NetworkError{Code: lookup.CodeRefused, Err: errors.New("dial tcp: connection refused")}
	l.errs["keyword:kw1"] = errors.New("decode response: unexpected EOF")
	m := buildDoc(t, nil, "ab ", nil, "link", linkWithKeyword("42", "kw1"))

	t.Run("english", func(t *testing.T) {
		c := newTestCommand(t, m, l)
		selectAt(t, m, document.Caret(5))
		c.Wait()
		assert.Equal(t, "Error requesting title", c.State().Title)
		assert.Equal(t, "Error requesting keyword", c.State().Keyword)
		selectAt(t, m, document.Caret(0))
	})

	t.Run("german", func(t *testing.T) {
		c := newTestCommandLocale(t, m, l, "de")
		selectAt(t, m, document.Caret(5))
		c.Wait()
		assert.Equal(t, "Fehler beim Abrufen des Titels", c.State().Title)
		assert.Equal(t, "Fehler beim Abrufen des Schlagworts", c.State().Keyword)
	})
}

func TestRefresh_ConcurrentChangesEndOnLatestSelection(t *testing.T) {
	l := newFakeLookup()
	l.titles["42"] = "Example"
	m := buildDoc(t, nil, "ab ", nil, "link", link("42"))
	c := newTestCommand(t, m, l)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(p document.Position) {
				defer wg.Done()
				assert.NoError(t, m.SetSelection(document.Caret(p)))
			}(document.Position(i * 2))
		}
		wg.Wait()

		want, _ := m.Snapshot().SelectionAttributes().Get(LinkIDAttribute)
		require.Equal(t, want, c.State().Value, "round %d", round)
	}
}

func TestSubscribe_Events(t *testing.T) {
	l := newFakeLookup()
	l.titles["42"] = "title"
	m := buildDoc(t, nil, "ab ", nil, "link", link("42"))
	c := newTestCommand(t, m, l)

	events, cancel := c.Subscribe()
	defer cancel()

	selectAt(t, m, document.Caret(5))
	ev := nextEvent(t, events)
	assert.Equal(t, EventStateChanged, ev.Kind)
	assert.Equal(t, "42", ev.State.Value)

	ev = nextEvent(t, events)
	assert.Equal(t, EventRefreshed, ev.Kind)
	assert.Equal(t, "title", ev.State.Title)
}

func TestClose_EndsSubscriptions(t *testing.T) {
	l := newFakeLookup()
	m := buildDoc(t, nil, "ab ", nil, "link", link("42"))
	c := newTestCommand(t, m, l)
	events, _ := c.Subscribe()

	c.Close()
	_, ok := <-events
	assert.False(t, ok, "subscription channel should be closed")

	selectAt(t, m, document.Caret(5))
	assert.Equal(t, "", c.State().Value, "closed command ignores model changes")

	late, _ := c.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}
