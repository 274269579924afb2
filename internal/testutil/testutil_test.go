package testutil_test

import (
	"testing"

	"expenza/internal/errors"
	"expenza/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "groups", "group_members", "expenses"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a generated ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID)
	if category.UserID != user.ID {
		t.Errorf("expected category owner %s, got %s", user.ID, category.UserID)
	}

	other := testutil.CreateTestUser(t, db)
	group := testutil.CreateTestGroupWithName(t, db, user, "Trip", other)
	if len(group.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(group.Members))
	}

	expense := testutil.CreateTestExpenseIn(t, db, user.ID, "42.50", &category.ID, &group.ID)
	if !expense.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("expected amount 42.50, got %s", expense.Amount)
	}
	if expense.CategoryID == nil || *expense.CategoryID != category.ID {
		t.Error("expense should reference its category")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
