package upload

import (
	"regexp"
	"testing"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

func TestBuildObjectKeyFormats(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	contentID := uuid.New()

	cases := []struct {
		name    string
		kind    enums.AssetKind
		in      UploadInput
		pattern string
	}{
		{
			name:    "movie",
			kind:    enums.AssetKindMovie,
			in:      UploadInput{FileName: "run.mp4", ContentType: "video/mp4"},
			pattern: `^movies/[0-9a-f-]{36}\.mp4$`,
		},
		{
			name: "episode",
			kind: enums.AssetKindEpisode,
			in: UploadInput{
				FileName:      "ep.mp4",
				ContentType:   "video/mp4",
				SeriesID:      "S1",
				SeasonNumber:  2,
				EpisodeNumber: 5,
			},
			pattern: `^series/S1/season-2/episode-5/[0-9a-f-]{36}\.mp4$`,
		},
		{
			name: "thumbnail",
			kind: enums.AssetKindThumbnail,
			in: UploadInput{
				FileName:    "poster.png",
				ContentType: "image/png",
				ContentID:   contentID,
				ContentKind: enums.CatalogKindMovie,
			},
			pattern: `^thumbnails/movie/` + contentID.String() + `/[0-9a-f-]{36}\.png$`,
		},
		{
			name: "trailer",
			kind: enums.AssetKindTrailer,
			in: UploadInput{
				FileName:    "teaser.mp4",
				ContentType: "video/mp4",
				ContentID:   contentID,
			},
			pattern: `^trailers/` + contentID.String() + `/[0-9a-f-]{36}\.mp4$`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := buildObjectKey(tc.kind, id, tc.in)
			if !regexp.MustCompile(tc.pattern).MatchString(key) {
				t.Fatalf("key %q does not match %q", key, tc.pattern)
			}
		})
	}
}

func TestBuildObjectKeySanitizesSeriesSegment(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	key := buildObjectKey(enums.AssetKindEpisode, id, UploadInput{
		FileName:      "ep.mp4",
		ContentType:   "video/mp4",
		SeriesID:      "my series/one",
		SeasonNumber:  1,
		EpisodeNumber: 1,
	})
	want := "series/my-series-one/season-1/episode-1/" + id.String() + ".mp4"
	if key != want {
		t.Fatalf("got %q, want %q", key, want)
	}
}

func TestFileExtensionFallsBackToContentType(t *testing.T) {
	t.Parallel()

	if got := fileExtension("", "image/png"); got != ".png" {
		t.Fatalf("got %q, want .png", got)
	}
	if got := fileExtension("clip.MOV", "video/quicktime"); got != ".mov" {
		t.Fatalf("got %q, want .mov", got)
	}
	if got := fileExtension("", "application/x-unknown-thing"); got != ".bin" {
		t.Fatalf("got %q, want .bin", got)
	}
}
