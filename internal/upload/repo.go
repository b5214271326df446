package upload

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
)

// Repository exposes catalog metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a catalog record.
func (r *Repository) Create(ctx context.Context, record *models.CatalogRecord) (*models.CatalogRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByID retrieves a catalog record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogRecord, error) {
	var rec models.CatalogRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByObjectKey retrieves the catalog record referencing the given object key.
func (r *Repository) FindByObjectKey(ctx context.Context, key string) (*models.CatalogRecord, error) {
	var rec models.CatalogRecord
	if err := r.db.WithContext(ctx).First(&rec, "object_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetPosterURL stores the poster URL on an existing record.
func (r *Repository) SetPosterURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.CatalogRecord{}).
		Where("id = ?", id).
		Update("poster_url", url).Error
}

// SetTrailerURL stores the trailer URL on an existing record.
func (r *Repository) SetTrailerURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.CatalogRecord{}).
		Where("id = ?", id).
		Update("trailer_url", url).Error
}

// MarkUnavailableByObjectKey flips a record to unavailable when its backing
// object disappears. Returns the number of rows touched.
func (r *Repository) MarkUnavailableByObjectKey(ctx context.Context, key string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CatalogRecord{}).
		Where("object_key = ?", key).
		Update("status", enums.CatalogStatusUnavailable)
	return res.RowsAffected, res.Error
}
