package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
)

// scenarioService manages what-if variants of a budget.
type scenarioService struct {
	db *gorm.DB
}

// NewScenarioService creates a new ScenarioServicer.
func NewScenarioService(db *gorm.DB) ScenarioServicer {
	return &scenarioService{db: db}
}

// CreateScenario stores a scenario on one of the user's budgets. Profit is
// always derived from revenue and expenses.
func (s *scenarioService) CreateScenario(userID, budgetID string, scenario models.Scenario) (*models.Scenario, error) {
	budget, err := findBudget(s.db, budgetID, ownedBy(userID))
	if err != nil {
		return nil, err
	}

	scenario.Name = strings.TrimSpace(scenario.Name)
	if scenario.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "scenario name is required")
	}
	if scenario.ScenarioType == "" {
		scenario.ScenarioType = models.ScenarioCustom
	}

	scenario.ID = ""
	scenario.BudgetID = budget.ID
	scenario.UserID = userID
	if err := s.db.Create(&scenario).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &scenario, nil
}

// GetScenarios lists a budget's scenarios in creation order.
func (s *scenarioService) GetScenarios(userID, budgetID string) ([]models.Scenario, error) {
	budget, err := findBudget(s.db, budgetID, visibleTo(userID))
	if err != nil {
		return nil, err
	}

	scenarios := []models.Scenario{}
	if err := s.db.Where("budget_id = ?", budget.ID).Order("id").Find(&scenarios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return scenarios, nil
}

// DeleteScenario soft-deletes one of the user's scenarios.
func (s *scenarioService) DeleteScenario(userID, scenarioID string) error {
	var scenario models.Scenario
	if err := s.db.Where("id = ? AND user_id = ?", scenarioID, userID).First(&scenario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrScenarioNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&scenario).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CompareScenarios sets every scenario of the budget against the budget's
// own planned totals.
func (s *scenarioService) CompareScenarios(userID, budgetID string) (*analytics.Comparison, error) {
	budget, err := findBudget(s.db, budgetID, visibleTo(userID))
	if err != nil {
		return nil, err
	}
	scenarios, err := s.GetScenarios(userID, budget.ID)
	if err != nil {
		return nil, err
	}

	figures := make([]analytics.ScenarioFigures, 0, len(scenarios))
	for _, sc := range scenarios {
		figures = append(figures, analytics.ScenarioFigures{
			ID:            sc.ID,
			Name:          sc.Name,
			ScenarioType:  string(sc.ScenarioType),
			TotalRevenue:  sc.TotalRevenue,
			TotalExpenses: sc.TotalExpenses,
			TotalProfit:   sc.TotalProfit,
		})
	}

	comparison := analytics.CompareScenarios(analytics.TotalsFrom(budget.Figures()), figures)
	return &comparison, nil
}
