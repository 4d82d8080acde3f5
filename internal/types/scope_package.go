package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopePackage bundles scope items the way a trade actually prices combined
// work ("Complete Electrical"). Membership lives on ScopeItem.PackageID so an
// item can belong to at most one package by construction.
type ScopePackage struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	Items       []*ScopeItem   `gorm:"foreignKey:PackageID;references:ID" json:"items,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScopePackage) TableName() string { return "scope_package" }
