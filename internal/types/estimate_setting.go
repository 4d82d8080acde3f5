package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CustomLineItem is an ad hoc client-facing line added below the divisions.
type CustomLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// EstimateSetting holds the per-project pricing knobs applied by the
// estimate roll-up. MarkupPercent is fractional (0.10 = 10%).
type EstimateSetting struct {
	ID                uuid.UUID                           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID         uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project           *Project                            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	MarkupPercent     float64                             `gorm:"column:markup_percent;not null;default:0" json:"markup_percent"`
	GeneralConditions float64                             `gorm:"column:general_conditions;not null;default:0" json:"general_conditions"`
	OverheadProfit    float64                             `gorm:"column:overhead_profit;not null;default:0" json:"overhead_profit"`
	Contingency       float64                             `gorm:"column:contingency;not null;default:0" json:"contingency"`
	CustomLineItems   datatypes.JSONSlice[CustomLineItem] `gorm:"column:custom_line_items;type:jsonb" json:"custom_line_items,omitempty"`
	CreatedAt         time.Time                           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time                           `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt                      `gorm:"index" json:"deleted_at,omitempty"`
}

func (EstimateSetting) TableName() string { return "estimate_setting" }
