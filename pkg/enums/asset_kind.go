package enums

import "fmt"

// AssetKind defines what kind of media object is being uploaded.
type AssetKind string

const (
	AssetKindMovie     AssetKind = "movie"
	AssetKindEpisode   AssetKind = "episode"
	AssetKindThumbnail AssetKind = "thumbnail"
	AssetKindTrailer   AssetKind = "trailer"
)

var validAssetKinds = []AssetKind{
	AssetKindMovie,
	AssetKindEpisode,
	AssetKindThumbnail,
	AssetKindTrailer,
}

// String returns the literal string for the kind.
func (a AssetKind) String() string {
	return string(a)
}

// IsValid reports whether the kind is known.
func (a AssetKind) IsValid() bool {
	for _, candidate := range validAssetKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsVideo reports whether the kind carries full-length or trailer video content.
func (a AssetKind) IsVideo() bool {
	return a == AssetKindMovie || a == AssetKindEpisode || a == AssetKindTrailer
}

// ParseAssetKind converts raw input into an AssetKind.
func ParseAssetKind(value string) (AssetKind, error) {
	for _, candidate := range validAssetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset kind %q", value)
}
