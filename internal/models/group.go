package models

// Group represents a set of users who jointly track expenses.
// The creator is always a member.
type Group struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedByID string `gorm:"type:uuid;not null" json:"created_by_id"`

	CreatedBy *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Members   []User    `gorm:"many2many:group_members" json:"members,omitempty"`
	Expenses  []Expense `gorm:"foreignKey:GroupID" json:"expenses,omitempty"`
}
