package services

import (
	"testing"

	"expenza/internal/models"
	"expenza/internal/pagination"
	"expenza/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries", "shopping_cart")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected a generated category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if cat.Icon != "shopping_cart" {
			t.Errorf("expected icon shopping_cart, got %s", cat.Icon)
		}
	})

	t.Run("default_icon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Misc", "")
		testutil.AssertNoError(t, err)

		if cat.Icon != models.DefaultCategoryIcon {
			t.Errorf("expected default icon, got %s", cat.Icon)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Food", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Food", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Food", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "food", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(alice.ID, "Food", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(bob.ID, "Food", "")
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	t.Run("with_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		testutil.CreateTestExpenseIn(t, db, user.ID, "10.00", &cat.ID, nil)
		testutil.CreateTestExpenseIn(t, db, user.ID, "5.50", &cat.ID, nil)

		result, err := svc.GetUserCategories(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 1 {
			t.Fatalf("expected 1 category, got %d", len(result.Data))
		}
		row := result.Data[0]
		if row.ExpenseCount != 2 {
			t.Errorf("expected 2 expenses, got %d", row.ExpenseCount)
		}
		if row.TotalAmount.StringFixed(2) != "15.50" {
			t.Errorf("expected total 15.50, got %s", row.TotalAmount)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, alice.ID)
		testutil.CreateTestCategory(t, db, bob.ID)

		result, err := svc.GetUserCategories(alice.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 1 {
			t.Errorf("expected only alice's category, got %d", len(result.Data))
		}
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		got, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		if got.ID != cat.ID {
			t.Errorf("expected category %s, got %s", cat.ID, got.ID)
		}
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, alice.ID)

		_, err := svc.GetCategoryByID(bob.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")

		updated, err := svc.UpdateCategory(user.ID, cat.ID, "Dining", "restaurant")
		testutil.AssertNoError(t, err)

		if updated.Name != "Dining" {
			t.Errorf("expected name Dining, got %s", updated.Name)
		}
		if updated.Icon != "restaurant" {
			t.Errorf("expected icon restaurant, got %s", updated.Icon)
		}
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		cat := testutil.CreateTestCategoryWithName(t, db, user.ID, "Travel")

		_, err := svc.UpdateCategory(user.ID, cat.ID, "food", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("keeps_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		exp := testutil.CreateTestExpenseIn(t, db, user.ID, "10.00", &cat.ID, nil)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var survivor models.Expense
		testutil.AssertNoError(t, db.First(&survivor, "id = ?", exp.ID).Error)
	})

	t.Run("name_reusable_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.CreateCategory(user.ID, "Food", "")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, first.ID))

		// The soft-deleted row must not block recreating the name.
		second, err := svc.CreateCategory(user.ID, "Food", "restaurant")
		testutil.AssertNoError(t, err)
		if second.ID == first.ID {
			t.Error("expected a fresh category, got the deleted one")
		}
		testutil.AssertCount(t, db, &models.Category{}, 1, "user_id = ? AND name = ?", user.ID, "Food")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteCategory(user.ID, "00000000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
