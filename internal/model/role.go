package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // admin, staff
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Shop owner account: catalog, stock, report review and staff management",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Sales floor account: transactions, stock lookup and product reports",
	},
}

// PrivilegeCodes returns the codes of every privilege attached to the role
func (r *Role) PrivilegeCodes() []string {
	codes := make([]string, len(r.Privileges))
	for i, p := range r.Privileges {
		codes[i] = p.Code
	}
	return codes
}
