// Package store persists the links and keywords served by the lookup API.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// LinkStoreIface exposes the link operations the lookup API needs.
type LinkStoreIface interface {
	Create(ctx context.Context, in LinkInput) (*Link, error)
	GetByID(ctx context.Context, id string) (*Link, error)
	GetBySlug(ctx context.Context, slug string) (*Link, error)
	List(ctx context.Context) ([]*Link, error)
	Update(ctx context.Context, id string, in LinkInput) (*Link, error)
	Delete(ctx context.Context, id string) error
	SetRegionalTitles(ctx context.Context, linkID string, titles []RegionalTitle) error
	ListRegionalTitles(ctx context.Context, linkID string) ([]*RegionalTitle, error)
	Count(ctx context.Context) (int, error)
}

// KeywordStoreIface exposes the keyword operations the lookup API needs.
type KeywordStoreIface interface {
	Create(ctx context.Context, keyword, description string) (*Keyword, error)
	GetByID(ctx context.Context, id string) (*Keyword, error)
	List(ctx context.Context) ([]*Keyword, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// isUniqueConstraintError reports whether err is a unique index violation
// on any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
