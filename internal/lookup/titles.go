package lookup

import (
	"slices"
	"strings"
)

// Title is one title of a link. Regional titles carry the country they
// apply to.
type Title struct {
	Title             string             `json:"title"`
	RegionInformation *RegionInformation `json:"regionInformation,omitempty"`
}

type RegionInformation struct {
	Country Country `json:"country"`
}

type Country struct {
	CountryCode string `json:"countryCode"`
}

func (t Title) countryCode() string {
	if t.RegionInformation == nil {
		return ""
	}
	return t.RegionInformation.Country.CountryCode
}

// TitlesString renders titles as "title; CC: title". Titles without a region
// come first ordered by title, then regional titles ordered by country code.
// Both orderings ignore case. titles is not modified.
func TitlesString(titles []Title) string {
	sorted := slices.Clone(titles)
	slices.SortStableFunc(sorted, func(a, b Title) int {
		ar, br := a.RegionInformation != nil, b.RegionInformation != nil
		switch {
		case ar && br:
			return strings.Compare(strings.ToUpper(a.countryCode()), strings.ToUpper(b.countryCode()))
		case ar:
			return 1
		case br:
			return -1
		default:
			return strings.Compare(strings.ToUpper(a.Title), strings.ToUpper(b.Title))
		}
	})

	var sb strings.Builder
	for i, t := range sorted {
		if i > 0 {
			sb.WriteString("; ")
		}
		if t.RegionInformation != nil {
			sb.WriteString(t.countryCode())
			sb.WriteString(": ")
		}
		sb.WriteString(t.Title)
	}
	return sb.String()
}
