package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PackageBidStatusPendingApproval = "pending_approval"
	PackageBidStatusApproved        = "approved"
	PackageBidStatusRejected        = "rejected"
	PackageBidStatusWithdrawn       = "withdrawn"
)

const (
	PackageBidProvenanceDirectEntry    = "direct_entry"
	PackageBidProvenanceCorrespondence = "extracted_from_correspondence"
	PackageBidProvenanceClarification  = "clarification_response"
)

// PackageBid is a single lump price for one whole scope package.
type PackageBid struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubcontractorID uuid.UUID      `gorm:"type:uuid;not null;index" json:"subcontractor_id"`
	Subcontractor   *Subcontractor `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubcontractorID;references:ID" json:"subcontractor,omitempty"`
	ScopePackageID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"scope_package_id"`
	ScopePackage    *ScopePackage  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScopePackageID;references:ID" json:"scope_package,omitempty"`
	Amount          float64        `gorm:"column:amount;not null;default:0" json:"amount"`
	Status          string         `gorm:"column:status;not null;default:'pending_approval'" json:"status"`
	Provenance      string         `gorm:"column:provenance;not null;default:'direct_entry'" json:"provenance"`
	Note            string         `gorm:"column:note" json:"note"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PackageBid) TableName() string { return "package_bid" }
