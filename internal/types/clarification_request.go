package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ClarificationStatusPending  = "pending"
	ClarificationStatusResolved = "resolved"
)

// ClarificationRequest tracks an open lump-sum ambiguity for one
// (project, subcontractor) pair. At most one pending row per pair; the
// migration adds a partial unique index enforcing it.
type ClarificationRequest struct {
	ID                uuid.UUID                              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID         uuid.UUID                              `gorm:"type:uuid;not null;index" json:"project_id"`
	Project           *Project                               `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	SubcontractorID   uuid.UUID                              `gorm:"type:uuid;not null;index" json:"subcontractor_id"`
	Subcontractor     *Subcontractor                         `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubcontractorID;references:ID" json:"subcontractor,omitempty"`
	RequestedPackages datatypes.JSONSlice[string]            `gorm:"column:requested_packages;type:jsonb" json:"requested_packages"`
	LumpSumAmount     float64                                `gorm:"column:lump_sum_amount;not null;default:0" json:"lump_sum_amount"`
	SupersededAmounts datatypes.JSONSlice[float64]           `gorm:"column:superseded_amounts;type:jsonb" json:"superseded_amounts,omitempty"`
	Status            string                                 `gorm:"column:status;not null;default:'pending'" json:"status"`
	PackageAmounts    datatypes.JSONType[map[string]float64] `gorm:"column:package_amounts;type:jsonb" json:"package_amounts,omitempty"`
	ResolvedAt        *time.Time                             `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt         time.Time                              `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time                              `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt                         `gorm:"index" json:"deleted_at,omitempty"`
}

func (ClarificationRequest) TableName() string { return "clarification_request" }
