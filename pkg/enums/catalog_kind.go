package enums

import "fmt"

// CatalogKind distinguishes standalone movies from series episodes.
type CatalogKind string

const (
	CatalogKindMovie         CatalogKind = "movie"
	CatalogKindSeriesEpisode CatalogKind = "series_episode"
)

var validCatalogKinds = []CatalogKind{
	CatalogKindMovie,
	CatalogKindSeriesEpisode,
}

func (c CatalogKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogKind.
func (c CatalogKind) IsValid() bool {
	for _, candidate := range validCatalogKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogKind converts raw input into a CatalogKind.
func ParseCatalogKind(value string) (CatalogKind, error) {
	for _, candidate := range validCatalogKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog kind %q", value)
}
