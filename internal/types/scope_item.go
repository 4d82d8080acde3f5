package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScopeItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project       *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	DivisionID    *uuid.UUID     `gorm:"type:uuid;index" json:"division_id,omitempty"`
	Division      *Division      `gorm:"constraint:OnDelete:SET NULL;foreignKey:DivisionID;references:ID" json:"division,omitempty"`
	PackageID     *uuid.UUID     `gorm:"type:uuid;index" json:"package_id,omitempty"`
	Package       *ScopePackage  `gorm:"constraint:OnDelete:SET NULL;foreignKey:PackageID;references:ID" json:"package,omitempty"`
	Description   string         `gorm:"column:description;not null" json:"description"`
	Quantity      float64        `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Unit          string         `gorm:"column:unit" json:"unit"`
	FallbackPrice *float64       `gorm:"column:fallback_price" json:"fallback_price,omitempty"`
	SortOrder     int            `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScopeItem) TableName() string { return "scope_item" }
