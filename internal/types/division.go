package types

import (
	"time"

	"github.com/google/uuid"
)

// Division is a standard trade category (CSI-style) grouping scope items.
// Code sorts lexically ("03", "09", "26").
type Division struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string    `gorm:"column:code;not null;index" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Division) TableName() string { return "division" }
