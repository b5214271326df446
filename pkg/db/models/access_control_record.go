package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

// AccessControlRecord is the authoritative access-control row. Rows are
// append-only; the most recent row by creation time is the enforceable one.
type AccessControlRecord struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Email        string             `gorm:"column:email;not null"`
	Status       enums.AccessStatus `gorm:"column:status;type:text;not null"`
	CanAccess    bool               `gorm:"column:can_access;not null"`
	AccessLevel  enums.AccessLevel  `gorm:"column:access_level;type:text;not null;default:'full'"`
	Reason       *string            `gorm:"column:reason"`
	SuspendedAt  *time.Time         `gorm:"column:suspended_at"`
	RestrictedAt *time.Time         `gorm:"column:restricted_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
