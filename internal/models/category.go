package models

// DefaultCategoryIcon is used when a category is created without an
// icon, including categories created by the AI pipeline when the model
// does not suggest one.
const DefaultCategoryIcon = "category"

// Category represents a user-scoped expense category with a Google
// Material Symbol icon. The (user_id, name) pair is unique among live
// rows; soft-deleted categories do not block reuse of the name.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,where:deleted_at IS NULL" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Icon   string `gorm:"not null;default:category" json:"icon"`

	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
