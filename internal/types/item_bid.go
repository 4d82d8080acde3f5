package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ItemBidStatusInvited   = "invited"
	ItemBidStatusSubmitted = "submitted"
	ItemBidStatusAwarded   = "awarded"
	ItemBidStatusDeclined  = "declined"
	ItemBidStatusWithdrawn = "withdrawn"
)

// ItemBid is a single subcontractor price for a single scope item.
type ItemBid struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubcontractorID uuid.UUID      `gorm:"type:uuid;not null;index:idx_sub_item,unique" json:"subcontractor_id"`
	Subcontractor   *Subcontractor `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubcontractorID;references:ID" json:"subcontractor,omitempty"`
	ScopeItemID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_sub_item,unique" json:"scope_item_id"`
	ScopeItem       *ScopeItem     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScopeItemID;references:ID" json:"scope_item,omitempty"`
	Amount          float64        `gorm:"column:amount;not null;default:0" json:"amount"`
	Status          string         `gorm:"column:status;not null;default:'invited'" json:"status"`
	Note            string         `gorm:"column:note" json:"note"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ItemBid) TableName() string { return "item_bid" }
