package upload

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

// Object keys encode enough context to be reconstructible during audits:
//
//	movies/{uuid}.{ext}
//	series/{seriesId}/season-{n}/episode-{m}/{uuid}.{ext}
//	thumbnails/{contentKind}/{contentId}/{uuid}.{ext}
//	trailers/{contentId}/{uuid}.{ext}
func buildObjectKey(kind enums.AssetKind, id uuid.UUID, in UploadInput) string {
	ext := fileExtension(in.FileName, in.ContentType)
	switch kind {
	case enums.AssetKindMovie:
		return fmt.Sprintf("movies/%s%s", id, ext)
	case enums.AssetKindEpisode:
		return fmt.Sprintf("series/%s/season-%d/episode-%d/%s%s",
			sanitizeSegment(in.SeriesID), in.SeasonNumber, in.EpisodeNumber, id, ext)
	case enums.AssetKindThumbnail:
		return fmt.Sprintf("thumbnails/%s/%s/%s%s", in.ContentKind, in.ContentID, id, ext)
	case enums.AssetKindTrailer:
		return fmt.Sprintf("trailers/%s/%s%s", in.ContentID, id, ext)
	}
	return fmt.Sprintf("misc/%s%s", id, ext)
}

func fileExtension(fileName, contentType string) string {
	if ext := strings.ToLower(path.Ext(path.Base(strings.TrimSpace(fileName)))); ext != "" && ext != "." {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func sanitizeSegment(value string) string {
	clean := strings.TrimSpace(value)
	clean = strings.ReplaceAll(clean, "/", "-")
	clean = strings.ReplaceAll(clean, "\\", "-")
	clean = strings.ReplaceAll(clean, " ", "-")
	return clean
}
