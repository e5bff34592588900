package model

// FarewellMessage is a rotating thank-you line printed at the bottom of
// receipts. One active message is picked at random per sale.
type FarewellMessage struct {
	BaseModel
	Message  string `gorm:"type:varchar(255);not null" json:"message" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// DefaultFarewellMessages are seeded on first boot.
var DefaultFarewellMessages = []string{
	"Thank you for your purchase!",
	"Have a great day!",
	"We appreciate your business!",
	"Come back soon!",
	"Thank you for choosing ChicCheckout!",
}
