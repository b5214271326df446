package accesscontrol

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openreel/openreel-backend/pkg/db/models"
)

// Repository persists control records and the profile mirror.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an access-control repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AppendControlRecord inserts a new control row. History is never updated in
// place; the latest row by creation time is the enforceable one.
func (r *Repository) AppendControlRecord(ctx context.Context, rec *models.AccessControlRecord) (*models.AccessControlRecord, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// LatestControlRecord returns the most recent control row for the user, or
// gorm.ErrRecordNotFound when the user has never been actioned.
func (r *Repository) LatestControlRecord(ctx context.Context, userID uuid.UUID) (*models.AccessControlRecord, error) {
	var rec models.AccessControlRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ControlHistory lists all control rows for a user, newest first.
func (r *Repository) ControlHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.AccessControlRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []models.AccessControlRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// UpsertProfileMirror writes the read-path mirror row, last writer wins.
func (r *Repository) UpsertProfileMirror(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "role", "status", "updated_at"}),
		}).
		Create(profile).Error
}

// FindProfile returns the mirror row for a user, or gorm.ErrRecordNotFound.
func (r *Repository) FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
