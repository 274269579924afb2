package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single monetary transaction. A nil CategoryID
// means uncategorized; a nil GroupID means a personal expense.
// Deleting a category must not delete its expenses, so the reference
// is nullable and set to NULL on category deletion.
type Expense struct {
	Base
	Description string          `gorm:"size:500;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	CategoryID  *string         `gorm:"type:uuid" json:"category_id,omitempty"`
	GroupID     *string         `gorm:"type:uuid" json:"group_id,omitempty"`
	PaidByID    string          `gorm:"type:uuid;not null;index" json:"paid_by_id"`
	ReceiptPath string          `json:"receipt_path,omitempty"`

	// IsAIGenerated marks expenses created through the chat pipeline
	// rather than manual entry.
	IsAIGenerated bool `gorm:"default:false" json:"is_ai_generated"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	PaidBy   *User     `gorm:"foreignKey:PaidByID" json:"paid_by,omitempty"`
}

// IsGroupExpense reports whether the expense belongs to a group.
func (e *Expense) IsGroupExpense() bool {
	return e.GroupID != nil
}
