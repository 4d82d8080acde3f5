package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FreeformStateReceived     = "received"
	FreeformStateApplied      = "applied"
	FreeformStateNeedsReview  = "needs_review"
	FreeformStateClarifying   = "clarifying"
)

// LineEntry is one extracted line of a freeform price submission. Amounts are
// already currency-parsed by the extraction collaborator.
type LineEntry struct {
	Description string  `json:"description"`
	TradeHint   string  `json:"trade_hint"`
	Amount      float64 `json:"amount"`
}

// FreeformSubmission is a price assertion lifted out of correspondence: a
// best-effort list of described amounts, possibly just one unbroken total.
type FreeformSubmission struct {
	ID              uuid.UUID                       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID       uuid.UUID                       `gorm:"type:uuid;not null;index" json:"project_id"`
	Project         *Project                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	SubcontractorID uuid.UUID                       `gorm:"type:uuid;not null;index" json:"subcontractor_id"`
	Subcontractor   *Subcontractor                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubcontractorID;references:ID" json:"subcontractor,omitempty"`
	TotalAmount     *float64                        `gorm:"column:total_amount" json:"total_amount,omitempty"`
	LineEntries     datatypes.JSONSlice[LineEntry]  `gorm:"column:line_entries;type:jsonb" json:"line_entries"`
	Confidence      float64                         `gorm:"column:confidence;not null;default:0" json:"confidence"`
	MultiPackageLumpSum bool                        `gorm:"column:multi_package_lump_sum;not null;default:false" json:"multi_package_lump_sum"`
	State           string                          `gorm:"column:state;not null;default:'received'" json:"state"`
	StateReason     string                          `gorm:"column:state_reason" json:"state_reason"`
	CreatedAt       time.Time                       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time                       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt                  `gorm:"index" json:"deleted_at,omitempty"`
}

func (FreeformSubmission) TableName() string { return "freeform_submission" }
