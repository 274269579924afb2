package services

import (
	"testing"

	"expenza/internal/pagination"
	"expenza/internal/testutil"
)

func TestCreateGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		friend := testutil.CreateTestUser(t, db)

		group, err := svc.CreateGroup(creator.ID, "Roommates", "Shared flat costs", []string{friend.Email})
		testutil.AssertNoError(t, err)

		if group.Name != "Roommates" {
			t.Errorf("expected name Roommates, got %s", group.Name)
		}
		if group.CreatedByID != creator.ID {
			t.Errorf("expected creator %s, got %s", creator.ID, group.CreatedByID)
		}
		if len(group.Members) != 2 {
			t.Errorf("expected 2 members, got %d", len(group.Members))
		}
	})

	t.Run("creator_always_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)

		group, err := svc.CreateGroup(creator.ID, "Solo", "", nil)
		testutil.AssertNoError(t, err)

		if len(group.Members) != 1 || group.Members[0].ID != creator.ID {
			t.Error("the creator should be the sole member of a memberless group")
		}
	})

	t.Run("unknown_member_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(creator.ID, "Ghosts", "", []string{"nobody@test.com"})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(creator.ID, "", "", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserGroups(t *testing.T) {
	t.Run("only_memberships", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)

		testutil.CreateTestGroupWithName(t, db, alice, "Alice Only")
		testutil.CreateTestGroupWithName(t, db, bob, "Shared", alice)
		testutil.CreateTestGroupWithName(t, db, bob, "Bob Only")

		result, err := svc.GetUserGroups(alice.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(result.Data))
		}
	})

	t.Run("with_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, user, "Trip")

		testutil.CreateTestExpenseIn(t, db, user.ID, "100.00", nil, &group.ID)
		testutil.CreateTestExpenseIn(t, db, user.ID, "25.25", nil, &group.ID)

		result, err := svc.GetUserGroups(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		row := result.Data[0]
		if row.ExpenseCount != 2 {
			t.Errorf("expected 2 expenses, got %d", row.ExpenseCount)
		}
		if row.TotalAmount.StringFixed(2) != "125.25" {
			t.Errorf("expected total 125.25, got %s", row.TotalAmount)
		}
	})
}

func TestGetGroupDetail(t *testing.T) {
	t.Run("member_stats", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, alice, "Trip", bob)

		testutil.CreateTestExpenseIn(t, db, alice.ID, "60.00", nil, &group.ID)
		testutil.CreateTestExpenseIn(t, db, bob.ID, "40.00", nil, &group.ID)

		detail, err := svc.GetGroupDetail(alice.ID, group.ID)
		testutil.AssertNoError(t, err)

		if len(detail.Expenses) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(detail.Expenses))
		}
		if detail.Total.StringFixed(2) != "100.00" {
			t.Errorf("expected group total 100.00, got %s", detail.Total)
		}
		if len(detail.MemberStats) != 2 {
			t.Fatalf("expected stats for 2 members, got %d", len(detail.MemberStats))
		}

		byUser := map[string]string{}
		for _, stat := range detail.MemberStats {
			byUser[stat.UserID] = stat.Total.StringFixed(2)
		}
		if byUser[alice.ID] != "60.00" {
			t.Errorf("expected alice total 60.00, got %s", byUser[alice.ID])
		}
		if byUser[bob.ID] != "40.00" {
			t.Errorf("expected bob total 40.00, got %s", byUser[bob.ID])
		}
	})

	t.Run("non_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Private")

		_, err := svc.GetGroupDetail(outsider.ID, group.ID)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestUpdateGroup(t *testing.T) {
	t.Run("creator_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Old Name")

		updated, err := svc.UpdateGroup(creator.ID, group.ID, "New Name", "fresh", nil)
		testutil.AssertNoError(t, err)

		if updated.Name != "New Name" {
			t.Errorf("expected New Name, got %s", updated.Name)
		}
	})

	t.Run("replaces_members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		old := testutil.CreateTestUser(t, db)
		replacement := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Trip", old)

		updated, err := svc.UpdateGroup(creator.ID, group.ID, "", "", []string{replacement.Email})
		testutil.AssertNoError(t, err)

		if len(updated.Members) != 2 {
			t.Fatalf("expected creator plus replacement, got %d members", len(updated.Members))
		}
		for _, m := range updated.Members {
			if m.ID == old.ID {
				t.Error("replaced member should no longer belong to the group")
			}
		}
	})

	t.Run("non_creator_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Trip", member)

		_, err := svc.UpdateGroup(member.ID, group.ID, "Hijacked", "", nil)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteGroup(t *testing.T) {
	t.Run("creator_deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Done")

		testutil.AssertNoError(t, svc.DeleteGroup(creator.ID, group.ID))

		_, err := svc.GetGroupByID(creator.ID, group.ID)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})

	t.Run("non_creator_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db)
		creator := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroupWithName(t, db, creator, "Trip", member)

		err := svc.DeleteGroup(member.ID, group.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
