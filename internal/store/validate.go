package store

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrSlugInvalid is returned when a slug does not match the required pattern.
	ErrSlugInvalid = errors.New("slug must match [a-z0-9][a-z0-9-]*[a-z0-9]")

	// ErrSlugReserved is returned when a slug collides with an API path segment.
	ErrSlugReserved = errors.New("slug is reserved and cannot be used")

	// ErrSlugTaken is returned when a slug already exists in the database.
	ErrSlugTaken = errors.New("slug is already taken")

	ErrKeywordEmpty = errors.New("keyword must not be empty")
	ErrKeywordTaken = errors.New("keyword is already taken")

	slugRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)

	reservedSlugs = map[string]bool{
		"api":               true,
		"metrics":           true,
		"keywords":          true,
		"short-description": true,
	}
)

// ValidateSlugFormat checks that slug conforms to the required format and is
// not reserved. Uniqueness is enforced by the unique index on links.slug.
func ValidateSlugFormat(slug string) error {
	if !slugRe.MatchString(slug) {
		return ErrSlugInvalid
	}
	if reservedSlugs[slug] {
		return fmt.Errorf("%w: %q", ErrSlugReserved, slug)
	}
	return nil
}
