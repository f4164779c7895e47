package services

import (
	"time"

	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
)

// varianceService compares budgeted figures with recorded actuals.
type varianceService struct {
	db *gorm.DB
}

// NewVarianceService creates a new VarianceServicer.
func NewVarianceService(db *gorm.DB) VarianceServicer {
	return &varianceService{db: db}
}

// actualFigures sums the entries that fall inside [start, end], both days
// inclusive.
func actualFigures(entries []models.ActualEntry, start, end time.Time) analytics.Figures {
	from, until := dayStart(start), dayAfter(end)
	var f analytics.Figures
	for _, e := range entries {
		if e.Date.Before(from) || !e.Date.Before(until) {
			continue
		}
		switch e.Type {
		case models.ItemTypeRevenue:
			f.Revenue += e.Amount
		case models.ItemTypeExpense:
			f.Expense += e.Amount
		}
	}
	return f
}

// CalculateVariance compares the budget's planned totals with the actuals
// recorded in the window. The window defaults to the budget's own dates;
// planned totals are not pro-rated to a narrower window.
func (s *varianceService) CalculateVariance(userID, budgetID string, start, end *time.Time) (*analytics.VarianceResult, error) {
	budget, err := findBudget(s.db, budgetID, visibleTo(userID))
	if err != nil {
		return nil, err
	}

	from, until := budget.StartDate.UTC(), budget.EndDate.UTC()
	if start != nil {
		from = dayStart(*start)
	}
	if end != nil {
		until = dayStart(*end)
	}
	if until.Before(from) {
		return nil, apperrors.ErrInvalidDateRange
	}

	entries, err := loadActuals(s.db, budget.ID)
	if err != nil {
		return nil, err
	}

	result := analytics.BuildVarianceResult(from, until, budget.Figures(), actualFigures(entries, from, until))
	return &result, nil
}

// GetVarianceSummary reports every approved or active budget of the user
// over its own period, plus the combined totals.
func (s *varianceService) GetVarianceSummary(userID string) (*VarianceSummary, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Items", preloadItems).
		Where("user_id = ? AND status IN ?", userID, []models.BudgetStatus{models.BudgetStatusApproved, models.BudgetStatusActive}).
		Order("start_date, id").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ids := make([]string, 0, len(budgets))
	for _, b := range budgets {
		ids = append(ids, b.ID)
	}
	entries, err := loadActuals(s.db, ids...)
	if err != nil {
		return nil, err
	}
	byBudget := make(map[string][]models.ActualEntry, len(budgets))
	for _, e := range entries {
		byBudget[e.BudgetID] = append(byBudget[e.BudgetID], e)
	}

	summary := &VarianceSummary{Budgets: make([]BudgetVariance, 0, len(budgets))}
	var planned, actual analytics.Figures
	var periodStart, periodEnd time.Time
	for i := range budgets {
		b := &budgets[i]
		from, until := b.StartDate.UTC(), b.EndDate.UTC()
		bPlanned := b.Figures()
		bActual := actualFigures(byBudget[b.ID], from, until)

		summary.Budgets = append(summary.Budgets, BudgetVariance{
			BudgetID:   b.ID,
			BudgetName: b.Name,
			Status:     b.Status,
			Variance:   analytics.BuildVarianceResult(from, until, bPlanned, bActual),
		})

		planned = planned.Add(bPlanned)
		actual = actual.Add(bActual)
		if periodStart.IsZero() || from.Before(periodStart) {
			periodStart = from
		}
		if until.After(periodEnd) {
			periodEnd = until
		}
	}

	summary.Total = analytics.BuildVarianceResult(periodStart, periodEnd, planned, actual)
	return summary, nil
}
