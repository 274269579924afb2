package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expenza/internal/chat"
	"expenza/internal/models"
	"expenza/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryWithTotals is a category together with aggregate spend data.
type CategoryWithTotals struct {
	models.Category
	ExpenseCount int64           `json:"expense_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[CategoryWithTotals], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// GroupWithTotals is a group together with aggregate spend data.
type GroupWithTotals struct {
	models.Group
	ExpenseCount int64           `json:"expense_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// MemberStat holds one member's contribution to a group.
type MemberStat struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	Total     decimal.Decimal `json:"total"`
	Count     int64           `json:"count"`
}

// GroupDetail is a group with its expenses and per-member statistics.
type GroupDetail struct {
	Group       models.Group     `json:"group"`
	Expenses    []models.Expense `json:"expenses"`
	MemberStats []MemberStat     `json:"member_stats"`
	Total       decimal.Decimal  `json:"total"`
}

// GroupServicer defines the contract for group-related business logic.
type GroupServicer interface {
	CreateGroup(userID, name, description string, memberEmails []string) (*models.Group, error)
	GetUserGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[GroupWithTotals], error)
	GetGroupByID(userID, groupID string) (*models.Group, error)
	GetGroupDetail(userID, groupID string) (*GroupDetail, error)
	UpdateGroup(userID, groupID, name, description string, memberEmails []string) (*models.Group, error)
	DeleteGroup(userID, groupID string) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	CategoryID *string
	GroupID    *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// ExpenseInput carries the fields for creating or updating an expense.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  *string
	GroupID     *string
	ReceiptPath string
}

// CategoryBreakdown is one row of the dashboard category aggregation.
type CategoryBreakdown struct {
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DashboardSummary aggregates a user's spending for the dashboard.
type DashboardSummary struct {
	TotalSpent        decimal.Decimal     `json:"total_spent"`
	MonthlySpent      decimal.Decimal     `json:"monthly_spent"`
	ExpenseCount      int64               `json:"expense_count"`
	RecentExpenses    []models.Expense    `json:"recent_expenses"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	GroupSummaries    []GroupWithTotals   `json:"group_summaries"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, in ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, in ExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetDashboard(userID string) (*DashboardSummary, error)
}

// ChatResult is the outcome of a successful chat submission.
type ChatResult struct {
	Expenses []models.Expense `json:"expenses"`
	Summary  string           `json:"summary"`
}

// ChatServicer defines the contract for the AI chat expense pipeline.
type ChatServicer interface {
	Submit(ctx context.Context, userID, message string) (*ChatResult, error)
	History(userID string) []chat.Entry
	ClearHistory(userID string)
}
