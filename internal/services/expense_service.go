package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "expenza/internal/errors"
	"expenza/internal/models"
	"expenza/internal/pagination"
)

// minAmount is the smallest valid expense amount.
var minAmount = decimal.New(1, -2) // 0.01

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense creates a manually entered expense. The AI pipeline
// uses its own materialization path and always sets is_ai_generated.
func (s *expenseService) CreateExpense(userID string, in ExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(userID, &in); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description:   in.Description,
		Amount:        in.Amount,
		Date:          in.Date,
		CategoryID:    in.CategoryID,
		GroupID:       in.GroupID,
		PaidByID:      userID,
		ReceiptPath:   in.ReceiptPath,
		IsAIGenerated: false,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(userID, expense.ID)
}

// validateInput checks the amount invariant and that any referenced
// category belongs to the user and any referenced group includes them.
func (s *expenseService) validateInput(userID string, in *ExpenseInput) error {
	if in.Description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if in.Amount.LessThan(minAmount) {
		return apperrors.ErrInvalidAmount
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	if in.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *in.CategoryID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrCategoryNotFound
		}
	}

	if in.GroupID != nil {
		var count int64
		if err := s.db.Model(&models.Group{}).
			Scopes(memberOf(userID)).
			Where("groups.id = ?", *in.GroupID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrGroupNotFound
		}
	}
	return nil
}

// GetUserExpenses retrieves a filtered, paginated list of the user's expenses.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("paid_by_id = ?", userID)
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.GroupID != nil {
		base = base.Where("group_id = ?", *filter.GroupID)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Preload("Category").
		Preload("Group").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense paid by the given user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Where("id = ? AND paid_by_id = ?", expenseID, userID).
		Preload("Category").
		Preload("Group").
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an existing expense's fields.
func (s *expenseService) UpdateExpense(userID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(userID, &in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"description": in.Description,
		"amount":      in.Amount,
		"date":        in.Date,
		"category_id": in.CategoryID,
		"group_id":    in.GroupID,
	}
	if in.ReceiptPath != "" {
		updates["receipt_path"] = in.ReceiptPath
	}

	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetDashboard aggregates the user's spending: lifetime and 30-day
// totals, recent expenses, top categories, and group summaries.
func (s *expenseService) GetDashboard(userID string) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		TotalSpent:   decimal.Zero,
		MonthlySpent: decimal.Zero,
	}

	type totalRow struct {
		Count int64
		Total decimal.Decimal
	}

	var lifetime totalRow
	if err := s.db.Model(&models.Expense{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("paid_by_id = ?", userID).
		Scan(&lifetime).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary.TotalSpent = lifetime.Total
	summary.ExpenseCount = lifetime.Count

	var monthly totalRow
	monthStart := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.Expense{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("paid_by_id = ? AND date >= ?", userID, monthStart).
		Scan(&monthly).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary.MonthlySpent = monthly.Total

	if err := s.db.Where("paid_by_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(10).
		Preload("Category").
		Preload("Group").
		Find(&summary.RecentExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Select("categories.name AS name, categories.icon AS icon, COALESCE(SUM(expenses.amount), 0) AS total, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = expenses.category_id AND categories.deleted_at IS NULL").
		Where("expenses.paid_by_id = ?", userID).
		Group("categories.name, categories.icon").
		Order("total DESC").
		Limit(5).
		Scan(&summary.CategoryBreakdown).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.Group
	if err := s.db.Model(&models.Group{}).
		Scopes(memberOf(userID)).
		Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	groupRows, err := (&groupService{db: s.db}).withTotals(groups)
	if err != nil {
		return nil, err
	}
	// Keep the five most active groups.
	sort.Slice(groupRows, func(i, j int) bool {
		return groupRows[i].TotalAmount.GreaterThan(groupRows[j].TotalAmount)
	})
	if len(groupRows) > 5 {
		groupRows = groupRows[:5]
	}
	summary.GroupSummaries = groupRows

	return summary, nil
}
