package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

// CatalogRecord is the metadata row for a playable title or episode. It is only
// created after the referenced object is confirmed persisted in the object store.
type CatalogRecord struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind          enums.CatalogKind   `gorm:"column:kind;type:text;not null"`
	Title         string              `gorm:"column:title;not null"`
	Description   *string             `gorm:"column:description"`
	SeriesID      *string             `gorm:"column:series_id"`
	SeasonNumber  *int                `gorm:"column:season_number"`
	EpisodeNumber *int                `gorm:"column:episode_number"`
	StorageType   enums.StorageType   `gorm:"column:storage_type;type:text;not null;default:'gcs'"`
	ObjectKey     string              `gorm:"column:object_key;not null;uniqueIndex"`
	PlaybackURL   string              `gorm:"column:playback_url;not null"`
	PosterURL     *string             `gorm:"column:poster_url"`
	TrailerURL    *string             `gorm:"column:trailer_url"`
	Status        enums.CatalogStatus `gorm:"column:status;type:text;not null;default:'active'"`
	UploadedBy    *uuid.UUID          `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
