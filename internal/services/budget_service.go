package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// findBudget loads a budget with its items. The scope narrows who may see it.
func findBudget(db *gorm.DB, budgetID string, scope func(*gorm.DB) *gorm.DB) (*models.Budget, error) {
	var budget models.Budget
	query := db.Preload("Items", preloadItems).Where("id = ?", budgetID)
	if scope != nil {
		query = query.Scopes(scope)
	}
	if err := query.First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// visibleTo lets the assigned approver read a budget as well as its owner.
func visibleTo(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id = ? OR approver_id = ?)", userID, userID)
	}
}

func validateItem(item *models.BudgetItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
	}
	if item.Type != models.ItemTypeRevenue && item.Type != models.ItemTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item type must be revenue or expense")
	}
	if item.Amount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item amount must not be negative")
	}
	return nil
}

// CreateBudget creates a draft budget with its initial items.
func (s *budgetService) CreateBudget(
	userID, name string,
	periodType models.PeriodType,
	startDate, endDate time.Time,
	items []models.BudgetItem,
) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	budgetItems := make([]models.BudgetItem, 0, len(items))
	for _, item := range items {
		item.ID = ""
		item.BudgetID = ""
		if err := validateItem(&item); err != nil {
			return nil, err
		}
		budgetItems = append(budgetItems, item)
	}

	budget := &models.Budget{
		UserID:     userID,
		Name:       name,
		PeriodType: periodType,
		StartDate:  startDate.UTC(),
		EndDate:    endDate.UTC(),
		Status:     models.BudgetStatusDraft,
		Items:      budgetItems,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets, newest first.
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	filter BudgetFilter,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.PeriodType != nil {
		base = base.Where("period_type = ?", *filter.PeriodType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Items", preloadItems).Order("start_date DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget if the user owns it or is its approver.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	return findBudget(s.db, budgetID, visibleTo(userID))
}

func (s *budgetService) editableBudget(userID, budgetID string) (*models.Budget, error) {
	budget, err := findBudget(s.db, budgetID, ownedBy(userID))
	if err != nil {
		return nil, err
	}
	if !budget.Status.Editable() {
		return nil, apperrors.ErrBudgetNotEditable
	}
	return budget, nil
}

// UpdateBudget changes the header fields of a draft or rejected budget.
func (s *budgetService) UpdateBudget(userID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.editableBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name must not be empty")
		}
		updates["name"] = name
		budget.Name = name
	}
	if update.PeriodType != nil {
		updates["period_type"] = *update.PeriodType
		budget.PeriodType = *update.PeriodType
	}
	if update.StartDate != nil {
		updates["start_date"] = update.StartDate.UTC()
		budget.StartDate = update.StartDate.UTC()
	}
	if update.EndDate != nil {
		updates["end_date"] = update.EndDate.UTC()
		budget.EndDate = update.EndDate.UTC()
	}
	if budget.EndDate.Before(budget.StartDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget that has not been approved, together
// with its items, actuals and scenarios.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := findBudget(s.db, budgetID, ownedBy(userID))
	if err != nil {
		return err
	}
	if budget.Status.Committed() {
		return apperrors.WithMessage(apperrors.ErrInvalidStatusTransition, "Approved or active budgets cannot be deleted")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.BudgetItem{}, &models.ActualEntry{}, &models.Scenario{}} {
			if err := tx.Where("budget_id = ?", budget.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddItem appends a line to a draft or rejected budget.
func (s *budgetService) AddItem(userID, budgetID string, item models.BudgetItem) (*models.BudgetItem, error) {
	budget, err := s.editableBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	if err := validateItem(&item); err != nil {
		return nil, err
	}

	item.ID = ""
	item.BudgetID = budget.ID
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// RemoveItem deletes a line from a draft or rejected budget.
func (s *budgetService) RemoveItem(userID, budgetID, itemID string) error {
	budget, err := s.editableBudget(userID, budgetID)
	if err != nil {
		return err
	}

	result := s.db.Where("id = ? AND budget_id = ?", itemID, budget.ID).Delete(&models.BudgetItem{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetItemNotFound
	}
	return nil
}

// GetBudgetTotals sums the budget's items into revenue, expenses and profit.
func (s *budgetService) GetBudgetTotals(userID, budgetID string) (analytics.Totals, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return analytics.Totals{}, err
	}
	return analytics.TotalsFrom(budget.Figures()), nil
}
