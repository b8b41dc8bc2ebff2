package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Link represents a row in the links table. ShortDescription is what the
// editor shows as the title of an internal link.
type Link struct {
	ID               string    `db:"id"`
	Slug             string    `db:"slug"`
	URL              string    `db:"url"`
	Title            string    `db:"title"`
	ShortDescription string    `db:"short_description"`
	Description      string    `db:"description"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// RegionalTitle is the title a link carries in one country.
type RegionalTitle struct {
	LinkID      string `db:"link_id"`
	CountryCode string `db:"country_code"`
	Title       string `db:"title"`
}

// LinkInput holds the writable fields of a link.
type LinkInput struct {
	Slug             string
	URL              string
	Title            string
	ShortDescription string
	Description      string
}

// LinkStore is the sqlx-backed implementation of LinkStoreIface.
type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *LinkStore) q(query string) string { return s.db.Rebind(query) }

// Create validates the slug and inserts a new link.
func (s *LinkStore) Create(ctx context.Context, in LinkInput) (*Link, error) {
	if err := ValidateSlugFormat(in.Slug); err != nil {
		return nil, err
	}
	l := &Link{
		ID:               uuid.New().String(),
		Slug:             in.Slug,
		URL:              in.URL,
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		CreatedAt:        time.Now().UTC(),
	}
	l.UpdatedAt = l.CreatedAt

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO links (id, slug, url, title, short_description, description, created_at, updated_at)
		VALUES (:id, :slug, :url, :title, :short_description, :description, :created_at, :updated_at)
	`, l)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return l, nil
}

// GetByID returns the link matching id, or ErrNotFound.
func (s *LinkStore) GetByID(ctx context.Context, id string) (*Link, error) {
	return s.get(ctx, `SELECT * FROM links WHERE id = ?`, id)
}

// GetBySlug returns the link matching slug, or ErrNotFound.
func (s *LinkStore) GetBySlug(ctx context.Context, slug string) (*Link, error) {
	return s.get(ctx, `SELECT * FROM links WHERE slug = ?`, slug)
}

func (s *LinkStore) get(ctx context.Context, query, arg string) (*Link, error) {
	var l Link
	err := s.db.GetContext(ctx, &l, s.q(query), arg)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns all links ordered by slug.
func (s *LinkStore) List(ctx context.Context) ([]*Link, error) {
	var links []*Link
	err := s.db.SelectContext(ctx, &links, `SELECT * FROM links ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	return links, nil
}

// Update replaces the writable fields of an existing link. The slug is
// immutable; in.Slug is ignored.
func (s *LinkStore) Update(ctx context.Context, id string, in LinkInput) (*Link, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE links SET url = ?, title = ?, short_description = ?, description = ?, updated_at = ?
		WHERE id = ?
	`), in.URL, in.Title, in.ShortDescription, in.Description, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a link by ID together with its regional titles.
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM link_titles WHERE link_id = ?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM links WHERE id = ?`), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SetRegionalTitles replaces the regional titles of a link. Country codes
// are stored upper-cased; a later entry for the same country wins.
func (s *LinkStore) SetRegionalTitles(ctx context.Context, linkID string, titles []RegionalTitle) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM link_titles WHERE link_id = ?`), linkID); err != nil {
		return err
	}

	byCountry := make(map[string]string, len(titles))
	var order []string
	for _, t := range titles {
		cc := strings.ToUpper(strings.TrimSpace(t.CountryCode))
		if _, seen := byCountry[cc]; !seen {
			order = append(order, cc)
		}
		byCountry[cc] = t.Title
	}
	for _, cc := range order {
		_, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO link_titles (link_id, country_code, title) VALUES (?, ?, ?)
		`), linkID, cc, byCountry[cc])
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRegionalTitles returns the regional titles of a link ordered by
// country code.
func (s *LinkStore) ListRegionalTitles(ctx context.Context, linkID string) ([]*RegionalTitle, error) {
	var titles []*RegionalTitle
	err := s.db.SelectContext(ctx, &titles, s.q(`
		SELECT * FROM link_titles WHERE link_id = ? ORDER BY country_code ASC
	`), linkID)
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Count returns the number of links.
func (s *LinkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM links`)
	return n, err
}
