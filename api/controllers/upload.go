package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/api/middleware"
	"github.com/openreel/openreel-backend/api/responses"
	"github.com/openreel/openreel-backend/api/validators"
	"github.com/openreel/openreel-backend/internal/upload"
	"github.com/openreel/openreel-backend/pkg/config"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/logger"
)

// UploadMovie handles a multipart movie upload: the blob lands in object
// storage first, then the catalog row is committed.
func UploadMovie(svc upload.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		file, err := validators.ParseUploadForm(r, "file", cfg.MaxVideoBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.File.Close()

		title, _ := validators.FormValue(r, "title")
		description, _ := validators.FormValue(r, "description")

		in := upload.UploadInput{
			Kind:        enums.AssetKindMovie,
			FileName:    file.FileName,
			ContentType: file.ContentType,
			SizeBytes:   file.SizeBytes,
			Body:        file.File,
			Title:       title,
			Description: description,
			UploadedBy:  actorID(r),
		}

		result, err := svc.Upload(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UploadEpisode handles a multipart series-episode upload.
func UploadEpisode(svc upload.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		file, err := validators.ParseUploadForm(r, "file", cfg.MaxVideoBytes())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.File.Close()

		title, _ := validators.FormValue(r, "title")
		description, _ := validators.FormValue(r, "description")
		seriesID, _ := validators.FormValue(r, "series_id")

		season, err := validators.FormInt(r, "season_number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		episode, err := validators.FormInt(r, "episode_number")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in := upload.UploadInput{
			Kind:          enums.AssetKindEpisode,
			FileName:      file.FileName,
			ContentType:   file.ContentType,
			SizeBytes:     file.SizeBytes,
			Body:          file.File,
			Title:         title,
			Description:   description,
			SeriesID:      seriesID,
			SeasonNumber:  season,
			EpisodeNumber: episode,
			UploadedBy:    actorID(r),
		}

		result, err := svc.Upload(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UploadThumbnail attaches a poster image to an existing catalog record.
func UploadThumbnail(svc upload.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return uploadAttachment(svc, cfg, logg, enums.AssetKindThumbnail)
}

// UploadTrailer attaches a trailer clip to an existing catalog record.
func UploadTrailer(svc upload.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return uploadAttachment(svc, cfg, logg, enums.AssetKindTrailer)
}

func uploadAttachment(svc upload.Service, cfg config.UploadConfig, logg *logger.Logger, kind enums.AssetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		limit := cfg.MaxImageBytes()
		if kind.IsVideo() {
			limit = cfg.MaxVideoBytes()
		}
		file, err := validators.ParseUploadForm(r, "file", limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.File.Close()

		rawContentID, ok := validators.FormValue(r, "content_id")
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content_id is required"))
			return
		}
		contentID, err := uuid.Parse(rawContentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid content_id"))
			return
		}

		in := upload.UploadInput{
			Kind:        kind,
			FileName:    file.FileName,
			ContentType: file.ContentType,
			SizeBytes:   file.SizeBytes,
			Body:        file.File,
			ContentID:   contentID,
			UploadedBy:  actorID(r),
		}

		result, err := svc.Upload(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func actorID(r *http.Request) uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
