package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Keyword represents a row in the keywords table.
type Keyword struct {
	ID          string    `db:"id"`
	Keyword     string    `db:"keyword"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// KeywordStore is the sqlx-backed store for keyword operations.
type KeywordStore struct {
	db *sqlx.DB
}

func NewKeywordStore(db *sqlx.DB) *KeywordStore {
	return &KeywordStore{db: db}
}

func (s *KeywordStore) q(query string) string { return s.db.Rebind(query) }

// List returns all keywords ordered by keyword name.
func (s *KeywordStore) List(ctx context.Context) ([]*Keyword, error) {
	var keywords []*Keyword
	err := s.db.SelectContext(ctx, &keywords, `SELECT * FROM keywords ORDER BY keyword ASC`)
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// GetByID returns the keyword matching the given ID, or ErrNotFound.
func (s *KeywordStore) GetByID(ctx context.Context, id string) (*Keyword, error) {
	var k Keyword
	err := s.db.GetContext(ctx, &k, s.q(`SELECT * FROM keywords WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Create inserts a new keyword and returns it. Keywords are trimmed and must
// be unique.
func (s *KeywordStore) Create(ctx context.Context, keyword, description string) (*Keyword, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrKeywordEmpty
	}
	k := &Keyword{
		ID:          uuid.New().String(),
		Keyword:     keyword,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO keywords (id, keyword, description, created_at) VALUES (?, ?, ?, ?)
	`), k.ID, k.Keyword, k.Description, k.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrKeywordTaken
		}
		return nil, err
	}
	return k, nil
}

// Delete removes a keyword by ID.
func (s *KeywordStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM keywords WHERE id = ?`), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of keywords.
func (s *KeywordStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM keywords`)
	return n, err
}
