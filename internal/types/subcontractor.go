package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subcontractor struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyName  string         `gorm:"column:company_name;not null" json:"company_name"`
	TradeFocus   string         `gorm:"column:trade_focus" json:"trade_focus"`
	ContactName  string         `gorm:"column:contact_name" json:"contact_name"`
	ContactEmail string         `gorm:"column:contact_email" json:"contact_email"`
	Phone        string         `gorm:"column:phone" json:"phone"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Subcontractor) TableName() string { return "subcontractor" }
