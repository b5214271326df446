package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/pkg/db"
	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
	"github.com/openreel/openreel-backend/pkg/storage/gcs"
)

type catalogRepository interface {
	Create(ctx context.Context, record *models.CatalogRecord) (*models.CatalogRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogRecord, error)
	SetPosterURL(ctx context.Context, id uuid.UUID, url string) error
	SetTrailerURL(ctx context.Context, id uuid.UUID, url string) error
}

type objectStore interface {
	UploadObject(ctx context.Context, in gcs.UploadInput) (*gcs.UploadOutput, error)
	DeleteObject(ctx context.Context, bucket, object string) error
	SignedReadURL(bucket, object string, ttl time.Duration) (string, error)
}

// Service orchestrates the blob-then-metadata upload pipeline.
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}

type service struct {
	repo          catalogRepository
	store         objectStore
	bucket        string
	signedTTL     time.Duration
	maxVideoBytes int64
	maxImageBytes int64
	logg          *logger.Logger
	pipeline      *metrics.PipelineMetrics
}

// NewService constructs the upload orchestrator.
func NewService(
	repo catalogRepository,
	store objectStore,
	bucket string,
	signedTTL time.Duration,
	maxVideoBytes, maxImageBytes int64,
	logg *logger.Logger,
	pipeline *metrics.PipelineMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	if signedTTL <= 0 {
		return nil, fmt.Errorf("signed url ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxVideoBytes <= 0 || maxImageBytes <= 0 {
		return nil, fmt.Errorf("upload size limits must be positive")
	}
	return &service{
		repo:          repo,
		store:         store,
		bucket:        bucket,
		signedTTL:     signedTTL,
		maxVideoBytes: maxVideoBytes,
		maxImageBytes: maxImageBytes,
		logg:          logg,
		pipeline:      pipeline,
	}, nil
}

// UploadInput models a single admin upload request.
type UploadInput struct {
	Kind        enums.AssetKind
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader

	Title         string
	Description   string
	SeriesID      string
	SeasonNumber  int
	EpisodeNumber int

	// Target record for thumbnail/trailer uploads.
	ContentID   uuid.UUID
	ContentKind enums.CatalogKind

	UploadedBy uuid.UUID
}

// Asset describes the persisted blob returned to the caller.
type Asset struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	SignedURL   string `json:"signed_url,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
}

// UploadResult pairs the blob descriptor with its catalog record.
type UploadResult struct {
	Asset         Asset                 `json:"asset"`
	CatalogRecord *models.CatalogRecord `json:"catalog_record"`
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	start := time.Now()
	if err := s.validate(in); err != nil {
		s.pipeline.IncUploadFailure(string(in.Kind), "validation")
		return nil, err
	}

	var target *models.CatalogRecord
	if in.Kind == enums.AssetKindThumbnail || in.Kind == enums.AssetKindTrailer {
		rec, err := s.repo.FindByID(ctx, in.ContentID)
		if err != nil {
			s.pipeline.IncUploadFailure(string(in.Kind), "lookup")
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog record not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog record")
		}
		target = rec
		in.ContentKind = rec.Kind
	}

	assetID := uuid.New()
	key := buildObjectKey(in.Kind, assetID, in)
	ctx = s.logg.WithObjectKey(ctx, key)

	out, err := s.store.UploadObject(ctx, gcs.UploadInput{
		Bucket:      s.bucket,
		Object:      key,
		ContentType: in.ContentType,
		Body:        in.Body,
		Metadata:    describeBlob(in),
	})
	if err != nil {
		s.pipeline.IncUploadFailure(string(in.Kind), "storage")
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store blob")
	}

	record, err := s.commitMetadata(ctx, in, target, key, out.PublicURL)
	if err != nil {
		s.pipeline.IncUploadFailure(string(in.Kind), "metadata_commit")
		s.compensate(ctx, in.Kind, key, err)
		return nil, err
	}

	asset := Asset{
		Key:         key,
		URL:         out.PublicURL,
		SizeBytes:   in.SizeBytes,
		ContentType: in.ContentType,
	}
	if signed, signErr := s.store.SignedReadURL(s.bucket, key, s.signedTTL); signErr == nil {
		asset.SignedURL = signed
	} else {
		s.logg.Warn(s.logg.WithField(ctx, "sign_error", signErr.Error()), "upload.signed_url_unavailable")
	}

	s.pipeline.IncUploadSuccess(string(in.Kind))
	s.pipeline.ObserveUploadDuration(string(in.Kind), time.Since(start))

	return &UploadResult{Asset: asset, CatalogRecord: record}, nil
}

func (s *service) validate(in UploadInput) error {
	if !in.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid asset kind")
	}
	if in.Body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if strings.TrimSpace(in.ContentType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "content type is required")
	}
	if in.SizeBytes <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file must not be empty")
	}

	limit := s.maxImageBytes
	if in.Kind.IsVideo() {
		limit = s.maxVideoBytes
	}
	if in.SizeBytes > limit {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds %d byte limit for %s uploads", limit, in.Kind)).
			WithDetails(map[string]any{"limit_bytes": limit, "size_bytes": in.SizeBytes})
	}

	switch in.Kind {
	case enums.AssetKindMovie:
		if strings.TrimSpace(in.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
	case enums.AssetKindEpisode:
		if strings.TrimSpace(in.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		if strings.TrimSpace(in.SeriesID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "series_id is required")
		}
		if in.SeasonNumber <= 0 || in.EpisodeNumber <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "season_number and episode_number must be positive")
		}
	case enums.AssetKindThumbnail, enums.AssetKindTrailer:
		if in.ContentID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "content_id is required")
		}
	}
	return nil
}

func (s *service) commitMetadata(ctx context.Context, in UploadInput, target *models.CatalogRecord, key, publicURL string) (*models.CatalogRecord, error) {
	switch in.Kind {
	case enums.AssetKindMovie, enums.AssetKindEpisode:
		record := &models.CatalogRecord{
			ID:          uuid.New(),
			Kind:        enums.CatalogKindMovie,
			Title:       strings.TrimSpace(in.Title),
			StorageType: enums.StorageTypeGCS,
			ObjectKey:   key,
			PlaybackURL: publicURL,
			Status:      enums.CatalogStatusActive,
		}
		if desc := strings.TrimSpace(in.Description); desc != "" {
			record.Description = &desc
		}
		if in.UploadedBy != uuid.Nil {
			uploader := in.UploadedBy
			record.UploadedBy = &uploader
		}
		if in.Kind == enums.AssetKindEpisode {
			record.Kind = enums.CatalogKindSeriesEpisode
			seriesID := strings.TrimSpace(in.SeriesID)
			record.SeriesID = &seriesID
			season := in.SeasonNumber
			episode := in.EpisodeNumber
			record.SeasonNumber = &season
			record.EpisodeNumber = &episode
		}
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate catalog entry")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeMetadataCommit, err, "insert catalog record")
		}
		return created, nil

	case enums.AssetKindThumbnail:
		if err := s.repo.SetPosterURL(ctx, target.ID, publicURL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMetadataCommit, err, "update poster url")
		}
		updated := *target
		updated.PosterURL = &publicURL
		return &updated, nil

	case enums.AssetKindTrailer:
		if err := s.repo.SetTrailerURL(ctx, target.ID, publicURL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMetadataCommit, err, "update trailer url")
		}
		updated := *target
		updated.TrailerURL = &publicURL
		return &updated, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeInternal, "unhandled asset kind")
}

// compensate deletes the just-uploaded blob after a failed metadata commit.
// A failed delete leaves an orphaned blob; there is no automatic retry, so it
// is logged at error severity and counted for out-of-band reconciliation.
func (s *service) compensate(ctx context.Context, kind enums.AssetKind, key string, commitErr error) {
	if delErr := s.store.DeleteObject(ctx, s.bucket, key); delErr != nil {
		s.pipeline.IncCompensationFailure(string(kind))
		s.logg.Error(ctx, "upload.orphaned_blob", multierr.Append(commitErr, delErr))
		return
	}
	s.logg.Info(ctx, "upload.compensated")
}

func describeBlob(in UploadInput) map[string]string {
	meta := map[string]string{
		"file_name":    strings.TrimSpace(in.FileName),
		"content_type": in.ContentType,
		"size_bytes":   strconv.FormatInt(in.SizeBytes, 10),
		"asset_kind":   string(in.Kind),
	}
	if in.UploadedBy != uuid.Nil {
		meta["uploaded_by"] = in.UploadedBy.String()
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		meta["title"] = title
	}
	if in.ContentID != uuid.Nil {
		meta["content_id"] = in.ContentID.String()
	}
	return meta
}
