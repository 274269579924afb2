package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"expenza/internal/ai"
	"expenza/internal/chat"
	apperrors "expenza/internal/errors"
	"expenza/internal/logger"
	"expenza/internal/models"
)

// fallbackDescription is used when the model extracts an expense
// without a usable description.
const fallbackDescription = "Unnamed Expense"

// chatService runs the natural-language expense pipeline: prompt,
// generate, parse, reconcile, materialize, summarize.
type chatService struct {
	db        *gorm.DB
	generator ai.Generator
	history   *chat.Store
}

// NewChatService creates a new ChatServicer. A nil generator disables
// AI parsing; submissions then fail with LLM_UNAVAILABLE.
func NewChatService(db *gorm.DB, generator ai.Generator, history *chat.Store) ChatServicer {
	return &chatService{db: db, generator: generator, history: history}
}

// Submit processes one chat message. Both the user message and the
// system response (success summary or error) are appended to the
// user's chat history. Either every extracted expense is persisted or
// none are: materialization runs in a single transaction.
func (s *chatService) Submit(ctx context.Context, userID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}

	s.history.Append(userID, chat.Entry{
		Role:      chat.RoleUser,
		Message:   message,
		Timestamp: time.Now(),
	})

	result, err := s.process(ctx, userID, message)
	if err != nil {
		s.history.Append(userID, chat.Entry{
			Role:      chat.RoleSystem,
			Message:   "❌ Sorry, I couldn't process that: " + err.Error(),
			Timestamp: time.Now(),
			IsError:   true,
		})
		return nil, err
	}

	s.history.Append(userID, chat.Entry{
		Role:      chat.RoleSystem,
		Message:   result.Summary,
		Timestamp: time.Now(),
		Expenses:  expenseRefs(result.Expenses),
	})
	return result, nil
}

func (s *chatService) process(ctx context.Context, userID, message string) (*ChatResult, error) {
	if s.generator == nil {
		return nil, apperrors.ErrLLMUnavailable
	}

	prompt, err := s.buildPrompt(userID, message)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrLLMError, err)
	}

	items, err := ai.ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNoExpensesFound
	}

	date := time.Now()
	var created []models.Expense
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			expense, err := s.materialize(tx, userID, item, date)
			if err != nil {
				return err
			}
			created = append(created, *expense)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("chat expenses created",
		"user_id", userID,
		"count", len(created),
	)

	return &ChatResult{
		Expenses: created,
		Summary:  buildSummary(created),
	}, nil
}

// buildPrompt loads the user's taxonomy and constructs the extraction
// prompt. Groups and categories are ordered by name so the prompt is
// deterministic for a given snapshot.
func (s *chatService) buildPrompt(userID, message string) (string, error) {
	var groups []models.Group
	if err := s.db.Model(&models.Group{}).
		Scopes(memberOf(userID)).
		Order("groups.name").
		Find(&groups).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("name").
		Find(&categories).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	groupNames := make([]string, 0, len(groups))
	for _, g := range groups {
		groupNames = append(groupNames, g.Name)
	}
	options := make([]ai.CategoryOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, ai.CategoryOption{Name: c.Name, Icon: c.Icon})
	}

	return ai.BuildPrompt(message, groupNames, options), nil
}

// materialize creates exactly one expense from a parsed item, with its
// category and group references resolved.
func (s *chatService) materialize(tx *gorm.DB, userID string, item ai.ParsedExpenseItem, date time.Time) (*models.Expense, error) {
	amount, err := item.AmountDecimal()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	}

	category, err := s.resolveCategory(tx, userID, item)
	if err != nil {
		return nil, err
	}
	group, err := s.resolveGroup(tx, userID, item)
	if err != nil {
		return nil, err
	}

	description := item.Description
	if description == "" {
		description = fallbackDescription
	}

	expense := &models.Expense{
		Description:   description,
		Amount:        amount,
		Date:          date,
		PaidByID:      userID,
		IsAIGenerated: true,
	}
	if category != nil {
		expense.CategoryID = &category.ID
		expense.Category = category
	}
	if group != nil {
		expense.GroupID = &group.ID
		expense.Group = group
	}

	if err := tx.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrReconciliation, err)
	}
	return expense, nil
}

// resolveCategory maps an extracted category name to a Category row.
// The model's is_new_category flag is trusted for creation semantics
// but not for absence: a claimed-existing name that matches nothing is
// still created, so an unmatched category never drops the expense.
func (s *chatService) resolveCategory(tx *gorm.DB, userID string, item ai.ParsedExpenseItem) (*models.Category, error) {
	if item.CategoryName == "" {
		return nil, nil
	}

	icon := item.SuggestedIcon
	if icon == "" {
		icon = models.DefaultCategoryIcon
	}

	if item.IsNewCategory {
		// Get-or-create by exact name. The unique (user_id, name)
		// index over live rows backs the insert-if-absent, so
		// concurrent submissions cannot produce duplicate live
		// categories.
		var category models.Category
		err := tx.Where(models.Category{UserID: userID, Name: item.CategoryName}).
			Attrs(models.Category{Icon: icon}).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrReconciliation, err)
		}
		return &category, nil
	}

	var category models.Category
	err := tx.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, item.CategoryName).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrReconciliation, err)
	}

	// The model claimed the category exists but nothing matched.
	// Create it anyway rather than dropping the expense.
	category = models.Category{UserID: userID, Name: item.CategoryName, Icon: icon}
	if err := tx.Create(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrReconciliation, err)
	}
	return &category, nil
}

// resolveGroup maps an extracted group name to a Group the user is a
// member of, matching case-insensitively. Groups are never created
// from AI input: creating a shared multi-user entity without explicit
// consent is disallowed, so an unmatched name yields a personal expense.
func (s *chatService) resolveGroup(tx *gorm.DB, userID string, item ai.ParsedExpenseItem) (*models.Group, error) {
	if item.GroupName == "" {
		return nil, nil
	}

	var group models.Group
	err := tx.Model(&models.Group{}).
		Scopes(memberOf(userID)).
		Where("LOWER(groups.name) = LOWER(?)", item.GroupName).
		First(&group).Error
	if err == nil {
		return &group, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, apperrors.Wrap(apperrors.ErrReconciliation, err)
}

// buildSummary renders the human-readable confirmation: one line for a
// single expense, a bulleted list for several.
func buildSummary(expenses []models.Expense) string {
	if len(expenses) == 1 {
		exp := expenses[0]
		msg := fmt.Sprintf("✅ Added expense: %s - $%s", exp.Description, exp.Amount.StringFixed(2))
		if exp.Category != nil {
			msg += fmt.Sprintf(" [%s]", exp.Category.Name)
		}
		if exp.Group != nil {
			msg += fmt.Sprintf(" [Group: %s]", exp.Group.Name)
		}
		return msg
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Added %d expenses:\n", len(expenses))
	for _, exp := range expenses {
		fmt.Fprintf(&b, "• %s - $%s", exp.Description, exp.Amount.StringFixed(2))
		if exp.Category != nil {
			fmt.Fprintf(&b, " [%s]", exp.Category.Name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func expenseRefs(expenses []models.Expense) []chat.ExpenseRef {
	refs := make([]chat.ExpenseRef, 0, len(expenses))
	for _, exp := range expenses {
		ref := chat.ExpenseRef{
			ID:          exp.ID,
			Description: exp.Description,
			Amount:      exp.Amount.StringFixed(2),
		}
		if exp.Category != nil {
			ref.Category = exp.Category.Name
			ref.CategoryIcon = exp.Category.Icon
		}
		if exp.Group != nil {
			ref.Group = exp.Group.Name
		}
		refs = append(refs, ref)
	}
	return refs
}

// History returns the user's chat history, oldest first.
func (s *chatService) History(userID string) []chat.Entry {
	return s.history.Entries(userID)
}

// ClearHistory removes the user's chat history.
func (s *chatService) ClearHistory(userID string) {
	s.history.Clear(userID)
}
