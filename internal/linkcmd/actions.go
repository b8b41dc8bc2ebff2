package linkcmd

import (
	"sync"

	"github.com/joestump/linkeditor/internal/locale"
)

// Intent is a user request raised by the action surface.
type Intent int

const (
	IntentEdit Intent = iota
	IntentUnlink
	IntentOpenPreview
)

func (i Intent) String() string {
	switch i {
	case IntentEdit:
		return "edit"
	case IntentUnlink:
		return "unlink"
	case IntentOpenPreview:
		return "open_preview"
	}
	return "unknown"
}

// View is what the link actions UI renders: a keyword label, a preview of
// the link title and the edit and unlink actions.
type View struct {
	KeywordLabel   string
	KeywordTooltip string
	KeywordEnabled bool

	PreviewLabel   string
	PreviewTooltip string
	PreviewEnabled bool

	EditLabel   string
	EditEnabled bool

	UnlinkLabel   string
	UnlinkEnabled bool
}

// Project derives the view for state s.
func Project(s State, tr *locale.Translator) View {
	linked := s.Value != ""
	label := s.Title
	if label == "" {
		label = tr.T(locale.InvalidLink)
	}
	return View{
		KeywordLabel:   s.Keyword,
		KeywordTooltip: tr.T(locale.Keyword),
		KeywordEnabled: linked,
		PreviewLabel:   label,
		PreviewTooltip: tr.T(locale.ShowPreview),
		PreviewEnabled: linked,
		EditLabel:      tr.T(locale.EditLink),
		EditEnabled:    linked,
		UnlinkLabel:    tr.T(locale.Unlink),
		UnlinkEnabled:  linked,
	}
}

// Actions is the state behind one rendered link actions UI. It only mirrors
// the command state and relays intents; it owns no document state. Close it
// when the UI is torn down.
type Actions struct {
	tr *locale.Translator

	mu   sync.Mutex
	view View

	intents   chan Intent
	done      chan struct{}
	closeOnce sync.Once
}

// NewActions creates an action surface showing the empty state.
func NewActions(tr *locale.Translator) *Actions {
	return &Actions{
		tr:      tr,
		view:    Project(State{}, tr),
		intents: make(chan Intent, 8),
		done:    make(chan struct{}),
	}
}

// Update re-projects the view from s and returns it.
func (a *Actions) Update(s State) View {
	v := Project(s, a.tr)
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
	return v
}

// View returns the current view.
func (a *Actions) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Watch keeps the view in sync with cmd until the actions are closed or the
// command is.
func (a *Actions) Watch(cmd *Command) {
	events, cancel := cmd.Subscribe()
	a.Update(cmd.State())
	go func() {
		defer cancel()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				a.Update(ev.State)
			case <-a.done:
				return
			}
		}
	}()
}

// Edit raises IntentEdit. It reports false when editing is disabled or the
// actions are closed.
func (a *Actions) Edit() bool {
	return a.View().EditEnabled && a.emit(IntentEdit)
}

// Unlink raises IntentUnlink.
func (a *Actions) Unlink() bool {
	return a.View().UnlinkEnabled && a.emit(IntentUnlink)
}

// OpenPreview raises IntentOpenPreview.
func (a *Actions) OpenPreview() bool {
	return a.View().PreviewEnabled && a.emit(IntentOpenPreview)
}

func (a *Actions) emit(i Intent) bool {
	select {
	case <-a.done:
		return false
	default:
	}
	select {
	case a.intents <- i:
		return true
	case <-a.done:
		return false
	}
}

// Intents returns the channel intents are delivered on.
func (a *Actions) Intents() <-chan Intent { return a.intents }

// Done is closed when the actions are closed.
func (a *Actions) Done() <-chan struct{} { return a.done }

// Close tears the actions down. Pending intents are dropped.
func (a *Actions) Close() {
	a.closeOnce.Do(func() { close(a.done) })
}

// Handlers receive the intents that leave the editor. Nil handlers ignore
// their intent.
type Handlers struct {
	Edit        func(State)
	OpenPreview func(State)
}

// Bind relays intents from a until it is closed.
func Bind(cmd *Command, a *Actions, h Handlers) {
	for {
		select {
		case i := <-a.Intents():
			Dispatch(cmd, i, h)
		case <-a.Done():
			return
		}
	}
}

// Dispatch handles one intent: unlink runs cmd.Unlink, edit and
// open-preview are handed to h with the command state.
func Dispatch(cmd *Command, i Intent, h Handlers) {
	switch i {
	case IntentUnlink:
		cmd.Unlink()
	case IntentEdit:
		if h.Edit != nil {
			h.Edit(cmd.State())
		}
	case IntentOpenPreview:
		if h.OpenPreview != nil {
			h.OpenPreview(cmd.State())
		}
	}
}
