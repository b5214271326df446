package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

// UserProfile mirrors a subset of access state for listing/search UIs. It is
// never authoritative for enforcement and may lag behind AccessControlRecord.
type UserProfile struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Email     string             `gorm:"column:email;not null;uniqueIndex"`
	Role      enums.SystemRole   `gorm:"column:role;type:text;not null;default:'user'"`
	Status    enums.AccessStatus `gorm:"column:status;type:text;not null;default:'active'"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
