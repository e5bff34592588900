package model

// Role represents user roles in the system
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // admin, manager, cashier
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all permissions",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Access to reports, products, transactions, and limited settings",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Access to POS system only",
	},
}
