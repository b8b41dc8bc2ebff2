package linkcmd

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/locale"
	"github.com/joestump/linkeditor/internal/lookup"
)

// Lookup resolves ids to display text. It is implemented by *lookup.Client.
type Lookup interface {
	ShortDescription(ctx context.Context, linkID string) (string, error)
	Keyword(ctx context.Context, keywordID string) (string, error)
}

// Result is the outcome of one resolution, tagged with the id it was
// requested for. On failure Text holds the localized placeholder and Err the
// cause.
type Result struct {
	ID   string
	Text string
	Err  error
}

// Resolver turns link and keyword ids into display text. Failures never
// propagate; they are logged and replaced by a placeholder.
type Resolver struct {
	lookup Lookup
	tr     *locale.Translator
	log    *zap.SugaredLogger
}

// NewResolver creates a Resolver backed by l.
func NewResolver(l Lookup, tr *locale.Translator, log *zap.SugaredLogger) *Resolver {
	return &Resolver{lookup: l, tr: tr, log: log}
}

// ResolveTitle fetches the short description shown for the link id.
func (r *Resolver) ResolveTitle(ctx context.Context, id string) Result {
	text, err := r.lookup.ShortDescription(ctx, id)
	if err != nil {
		r.logFailure("title", id, err)
		return Result{ID: id, Text: r.tr.T(locale.ErrorRequestingTitle), Err: err}
	}
	return Result{ID: id, Text: text}
}

// ResolveKeyword fetches the label of the keyword id.
func (r *Resolver) ResolveKeyword(ctx context.Context, id string) Result {
	text, err := r.lookup.Keyword(ctx, id)
	if err != nil {
		r.logFailure("keyword", id, err)
		return Result{ID: id, Text: r.tr.T(locale.ErrorRequestingKeyword), Err: err}
	}
	return Result{ID: id, Text: text}
}

func (r *Resolver) logFailure(kind, id string, err error) {
	var netErr *lookup.NetworkError
	if errors.As(err, &netErr) {
		r.log.Warnw("lookup request failed", "kind", kind, "id", id, "code", netErr.Code, "status", netErr.StatusCode, "error", netErr.Err)
		return
	}
	r.log.Warnw("lookup failed", "kind", kind, "id", id, "error", err)
}
