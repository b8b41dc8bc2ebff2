// Package linkcmd implements the internal link command of the editor: it
// reads the link under the selection, applies or removes the internal link
// and keyword attributes, and resolves their display text asynchronously.
package linkcmd

import "github.com/joestump/linkeditor/internal/document"

// Model attribute keys written by the command.
const (
	LinkIDAttribute    = "internalLinkId"
	KeywordIDAttribute = "internalKeywordId"
)

// AttributeReader is the read access FindAttributeRange needs.
// Both *document.Snapshot and *document.Writer satisfy it.
type AttributeReader interface {
	Len() int
	AttributeBefore(p document.Position, key string) (string, bool)
	AttributeAfter(p document.Position, key string) (string, bool)
}

// FindAttributeRange returns the maximal range around pos whose runes all
// carry key with exactly value. It walks backward from pos while the rune
// before matches and forward while the rune after matches, stopping at the
// document boundaries. An unset attribute only matches the empty value.
func FindAttributeRange(pos document.Position, key, value string, doc AttributeReader) document.Range {
	start := pos
	for start > 0 {
		if v, _ := doc.AttributeBefore(start, key); v != value {
			break
		}
		start--
	}
	end := pos
	for int(end) < doc.Len() {
		if v, _ := doc.AttributeAfter(end, key); v != value {
			break
		}
		end++
	}
	return document.Range{Start: start, End: end}
}
