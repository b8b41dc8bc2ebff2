package api

import (
	"time"

	"github.com/joestump/linkeditor/internal/lookup"
	"github.com/joestump/linkeditor/internal/store"
)

// RegionalTitle is the title of a link in one country.
type RegionalTitle struct {
	CountryCode string `json:"countryCode" validate:"required,len=2,alpha"`
	Title       string `json:"title" validate:"required"`
}

// CreateLinkRequest is the request body for POST /api/v1/links.
type CreateLinkRequest struct {
	Slug             string          `json:"slug" validate:"required,max=255"`
	URL              string          `json:"url" validate:"required,url"`
	Title            string          `json:"title,omitempty"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	Description      string          `json:"description,omitempty"`
	RegionalTitles   []RegionalTitle `json:"regionalTitles,omitempty" validate:"dive"`
}

// UpdateLinkRequest is the request body for PUT /api/v1/links/{id}. The slug
// cannot change. Regional titles are replaced only when the field is present.
type UpdateLinkRequest struct {
	URL              string          `json:"url" validate:"required,url"`
	Title            string          `json:"title,omitempty"`
	ShortDescription string          `json:"shortDescription,omitempty"`
	Description      string          `json:"description,omitempty"`
	RegionalTitles   []RegionalTitle `json:"regionalTitles" validate:"dive"`
}

// LinkResponse is the JSON representation of a single link.
type LinkResponse struct {
	ID               string          `json:"id"`
	Slug             string          `json:"slug"`
	URL              string          `json:"url"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"shortDescription"`
	Description      string          `json:"description"`
	RegionalTitles   []RegionalTitle `json:"regionalTitles,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ShortDescriptionResponse is one element of the short-description
// endpoint's array. Editors read the first element. Titles lists the plain
// title followed by the regional ones.
type ShortDescriptionResponse struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	ShortDescription string         `json:"shortDescription"`
	Titles           []lookup.Title `json:"titles,omitempty"`
}

// CreateKeywordRequest is the request body for POST /api/v1/keywords.
type CreateKeywordRequest struct {
	Keyword     string `json:"keyword" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

// KeywordResponse is the JSON representation of a keyword.
type KeywordResponse struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Description string `json:"description"`
}

func toLinkResponse(l *store.Link, titles []*store.RegionalTitle) LinkResponse {
	resp := LinkResponse{
		ID:               l.ID,
		Slug:             l.Slug,
		URL:              l.URL,
		Title:            l.Title,
		ShortDescription: l.ShortDescription,
		Description:      l.Description,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	for _, t := range titles {
		resp.RegionalTitles = append(resp.RegionalTitles, RegionalTitle{CountryCode: t.CountryCode, Title: t.Title})
	}
	return resp
}

func toShortDescriptionResponse(l *store.Link, titles []*store.RegionalTitle) ShortDescriptionResponse {
	resp := ShortDescriptionResponse{ID: l.ID, Title: l.Title, ShortDescription: l.ShortDescription}
	if l.Title != "" {
		resp.Titles = append(resp.Titles, lookup.Title{Title: l.Title})
	}
	for _, t := range titles {
		resp.Titles = append(resp.Titles, lookup.Title{
			Title:             t.Title,
			RegionInformation: &lookup.RegionInformation{Country: lookup.Country{CountryCode: t.CountryCode}},
		})
	}
	return resp
}

func toStoreTitles(titles []RegionalTitle) []store.RegionalTitle {
	out := make([]store.RegionalTitle, len(titles))
	for i, t := range titles {
		out[i] = store.RegionalTitle{CountryCode: t.CountryCode, Title: t.Title}
	}
	return out
}

func toKeywordResponse(k *store.Keyword) KeywordResponse {
	return KeywordResponse{ID: k.ID, Keyword: k.Keyword, Description: k.Description}
}
