package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "expenza/internal/errors"
	"expenza/internal/models"
	"expenza/internal/pagination"
)

// groupService handles group-related business logic.
type groupService struct {
	db *gorm.DB
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB) GroupServicer {
	return &groupService{db: db}
}

// CreateGroup creates a group. The creator is always added as a
// member; additional members are resolved by email and must exist.
func (s *groupService) CreateGroup(userID, name, description string, memberEmails []string) (*models.Group, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}

	members, err := s.resolveMembers(userID, memberEmails)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedByID: userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(group).Association("Members").Append(members); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGroupByID(userID, group.ID)
}

// resolveMembers loads the creator plus the users behind the given
// emails. Unknown emails are an error rather than silently skipped.
func (s *groupService) resolveMembers(creatorID string, memberEmails []string) ([]*models.User, error) {
	var creator models.User
	if err := s.db.Where("id = ?", creatorID).First(&creator).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	members := []*models.User{&creator}
	seen := map[string]bool{creator.Email: true}

	for _, email := range memberEmails {
		if seen[email] {
			continue
		}
		seen[email] = true

		var user models.User
		if err := s.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrUserNotFound, "no user with email "+email)
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		members = append(members, &user)
	}
	return members, nil
}

// memberOf scopes a groups query to groups the user belongs to.
func memberOf(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN group_members gm ON gm.group_id = groups.id").
			Where("gm.user_id = ?", userID)
	}
}

// GetUserGroups retrieves a paginated list of groups the user is a
// member of, with expense counts and totals.
func (s *groupService) GetUserGroups(userID string, page pagination.PageRequest) (*pagination.PageResponse[GroupWithTotals], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Group{}).Scopes(memberOf(userID)).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var groups []models.Group
	if err := s.db.Model(&models.Group{}).
		Scopes(memberOf(userID)).
		Order("groups.created_at DESC").
		Scopes(pagination.Paginate(page)).
		Preload("Members").
		Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows, err := s.withTotals(groups)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(rows, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// withTotals attaches expense counts and sums to the given groups.
func (s *groupService) withTotals(groups []models.Group) ([]GroupWithTotals, error) {
	rows := make([]GroupWithTotals, 0, len(groups))
	if len(groups) == 0 {
		return rows, nil
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}

	type aggRow struct {
		GroupID string
		Count   int64
		Total   decimal.Decimal
	}
	var aggs []aggRow
	if err := s.db.Model(&models.Expense{}).
		Select("group_id, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("group_id IN ?", ids).
		Group("group_id").
		Scan(&aggs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byID := make(map[string]aggRow, len(aggs))
	for _, a := range aggs {
		byID[a.GroupID] = a
	}

	for _, g := range groups {
		row := GroupWithTotals{Group: g}
		if a, ok := byID[g.ID]; ok {
			row.ExpenseCount = a.Count
			row.TotalAmount = a.Total
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetGroupByID retrieves a group the user is a member of.
func (s *groupService) GetGroupByID(userID, groupID string) (*models.Group, error) {
	var group models.Group
	err := s.db.Model(&models.Group{}).
		Scopes(memberOf(userID)).
		Where("groups.id = ?", groupID).
		Preload("Members").
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// GetGroupDetail retrieves a group with its expenses and per-member
// contribution statistics.
func (s *groupService) GetGroupDetail(userID, groupID string) (*GroupDetail, error) {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Where("group_id = ?", groupID).
		Order("date DESC, created_at DESC").
		Preload("Category").
		Preload("PaidBy").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type aggRow struct {
		PaidByID string
		Count    int64
		Total    decimal.Decimal
	}
	var aggs []aggRow
	if err := s.db.Model(&models.Expense{}).
		Select("paid_by_id, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("group_id = ?", groupID).
		Group("paid_by_id").
		Scan(&aggs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMember := make(map[string]aggRow, len(aggs))
	for _, a := range aggs {
		byMember[a.PaidByID] = a
	}

	total := decimal.Zero
	stats := make([]MemberStat, 0, len(group.Members))
	for _, m := range group.Members {
		stat := MemberStat{
			UserID:    m.ID,
			Email:     m.Email,
			FirstName: m.FirstName,
			Total:     decimal.Zero,
		}
		if a, ok := byMember[m.ID]; ok {
			stat.Total = a.Total
			stat.Count = a.Count
		}
		total = total.Add(stat.Total)
		stats = append(stats, stat)
	}

	return &GroupDetail{
		Group:       *group,
		Expenses:    expenses,
		MemberStats: stats,
		Total:       total,
	}, nil
}

// UpdateGroup updates a group's name, description, and member set.
// Only the creator may update a group; the creator stays a member.
func (s *groupService) UpdateGroup(userID, groupID, name, description string, memberEmails []string) (*models.Group, error) {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedByID != userID {
		return nil, apperrors.ErrForbidden
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(group).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if memberEmails != nil {
			members, err := s.resolveMembers(userID, memberEmails)
			if err != nil {
				return err
			}
			if err := tx.Model(group).Association("Members").Replace(members); err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetGroupByID(userID, groupID)
}

// DeleteGroup soft-deletes a group. Only the creator may delete it.
func (s *groupService) DeleteGroup(userID, groupID string) error {
	group, err := s.GetGroupByID(userID, groupID)
	if err != nil {
		return err
	}
	if group.CreatedByID != userID {
		return apperrors.ErrForbidden
	}

	if err := s.db.Delete(group).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
