package model

import "github.com/google/uuid"

// Feedback is an optional customer rating collected after checkout. It hangs
// off a transaction but plays no part in pricing.
type Feedback struct {
	BaseModel
	TransactionID *uuid.UUID   `gorm:"type:uuid;index" json:"transaction_id"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	CustomerName  string       `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string       `gorm:"type:varchar(255)" json:"customer_email"`
	Rating        int          `gorm:"not null" json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string       `gorm:"type:text" json:"comment"`
}
