package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementSale       MovementType = "sale"
)

// StockMovement records every change to a product's stock level: manual
// adjustments, restocks, and checkout decrements. Previous/new stock are
// captured so the trail survives later product edits.
type StockMovement struct {
	BaseModel
	ProductID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product         *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UserID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type            MovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=in out adjustment sale"`
	Quantity        int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	PreviousStock   int          `gorm:"not null" json:"previous_stock"`
	NewStock        int          `gorm:"not null" json:"new_stock"`
	Reason          string       `gorm:"type:varchar(255);not null" json:"reason" validate:"required"`
	ReferenceNumber string       `gorm:"type:varchar(255)" json:"reference_number"`
}
