package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/logger"
	"ledgerdesk/internal/models"
)

// actualService records actuals against committed budgets.
type actualService struct {
	db       *gorm.DB
	notifier NotificationServicer
}

// NewActualService creates a new ActualServicer.
func NewActualService(db *gorm.DB, notifier NotificationServicer) ActualServicer {
	return &actualService{db: db, notifier: notifier}
}

// RecordActual stores an actual entry on an approved or active budget. When
// the entry pushes recorded expenses past the budgeted expense total the
// owner is notified once.
func (s *actualService) RecordActual(userID, budgetID string, entry models.ActualEntry) (*models.ActualEntry, error) {
	if entry.Type != models.ItemTypeRevenue && entry.Type != models.ItemTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be revenue or expense")
	}
	if entry.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if entry.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	entry.ID = ""
	entry.UserID = userID
	entry.Date = entry.Date.UTC()
	entry.Category = strings.TrimSpace(entry.Category)

	var (
		budget   *models.Budget
		crossed  bool
		planned  float64
		spentNow float64
	)
	// The budget row lock serializes recordings on one budget, so exactly one
	// entry observes the crossing.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = findBudget(tx.Clauses(clause.Locking{Strength: "UPDATE"}), budgetID, ownedBy(userID))
		if err != nil {
			return err
		}
		if !budget.Status.Committed() {
			return apperrors.ErrBudgetNotActive
		}

		var spentBefore float64
		if entry.Type == models.ItemTypeExpense {
			if spentBefore, err = expenseTotal(tx, budget.ID); err != nil {
				return err
			}
		}

		entry.BudgetID = budget.ID
		if err := tx.Create(&entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if entry.Type == models.ItemTypeExpense {
			planned = budget.Figures().Expense
			spentNow = spentBefore + entry.Amount
			crossed = spentBefore <= planned && spentNow > planned
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if crossed {
		s.notifyExceeded(budget, planned, spentNow)
	}
	return &entry, nil
}

func expenseTotal(db *gorm.DB, budgetID string) (float64, error) {
	var total float64
	err := db.Model(&models.ActualEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_id = ? AND type = ?", budgetID, models.ItemTypeExpense).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

func (s *actualService) notifyExceeded(budget *models.Budget, planned, spent float64) {
	over := analytics.ComputeVariance(planned, spent)
	message := fmt.Sprintf("%q has recorded %.2f of expenses against %.2f budgeted (%.2f over).",
		budget.Name, spent, planned, over.Variance)
	if _, err := s.notifier.Notify(budget.UserID, models.NotificationBudgetExceeded, "Budget exceeded", message, budgetURL(budget.ID)); err != nil {
		logger.Named("actuals").Errorw("failed to deliver budget_exceeded notification",
			"error", err,
			"budget_id", budget.ID,
		)
	}
}

// ListActuals returns a budget's actuals in date order, optionally limited
// to an inclusive day window.
func (s *actualService) ListActuals(userID, budgetID string, start, end *time.Time) ([]models.ActualEntry, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperrors.ErrInvalidDateRange
	}
	budget, err := findBudget(s.db, budgetID, visibleTo(userID))
	if err != nil {
		return nil, err
	}

	entries, err := loadActuals(s.db, budget.ID)
	if err != nil {
		return nil, err
	}

	out := make([]models.ActualEntry, 0, len(entries))
	for _, e := range entries {
		if (start == nil || !e.Date.Before(dayStart(*start))) && (end == nil || e.Date.Before(dayAfter(*end))) {
			out = append(out, e)
		}
	}
	return out, nil
}

// loadActuals fetches every actual of the given budgets ordered by date.
// Window filtering is done in Go so the comparison does not depend on how
// the driver stores timestamps.
func loadActuals(db *gorm.DB, budgetIDs ...string) ([]models.ActualEntry, error) {
	var entries []models.ActualEntry
	if len(budgetIDs) == 0 {
		return entries, nil
	}
	if err := db.Where("budget_id IN ?", budgetIDs).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range entries {
		entries[i].Date = entries[i].Date.UTC()
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayAfter(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, 1)
}
