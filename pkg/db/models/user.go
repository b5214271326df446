package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
)

// User represents the canonical identity entity; the access-control subsystem
// reads it only to resolve roles and email addresses.
type User struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string           `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string           `gorm:"column:display_name;not null"`
	Role        enums.SystemRole `gorm:"column:role;type:text;not null;default:'user'"`
	LastLoginAt *time.Time       `gorm:"column:last_login_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
