package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expenza/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", counter.Load()),
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   models.DefaultCategoryIcon,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestGroup creates a group with the creator as the only member.
func CreateTestGroup(t *testing.T, db *gorm.DB, creator *models.User) *models.Group {
	t.Helper()
	return CreateTestGroupWithName(t, db, creator, fmt.Sprintf("Test Group %d", nextID()))
}

// CreateTestGroupWithName creates a group with the given name and members.
// The creator is always added as a member.
func CreateTestGroupWithName(t *testing.T, db *gorm.DB, creator *models.User, name string, members ...*models.User) *models.Group {
	t.Helper()

	groupMembers := []models.User{*creator}
	for _, m := range members {
		groupMembers = append(groupMembers, *m)
	}

	group := &models.Group{
		Name:        name,
		CreatedByID: creator.ID,
		Members:     groupMembers,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestExpense creates an expense paid by the given user.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount string) *models.Expense {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid test expense amount %q: %v", amount, err)
	}

	expense := &models.Expense{
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amt,
		Date:        time.Now(),
		PaidByID:    userID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestExpenseIn creates an expense assigned to a category and/or group.
func CreateTestExpenseIn(t *testing.T, db *gorm.DB, userID string, amount string, categoryID, groupID *string) *models.Expense {
	t.Helper()

	expense := CreateTestExpense(t, db, userID, amount)
	expense.CategoryID = categoryID
	expense.GroupID = groupID
	if err := db.Save(expense).Error; err != nil {
		t.Fatalf("failed to assign test expense: %v", err)
	}
	return expense
}
