package models

import "gorm.io/gorm"

// ScenarioType labels the assumption set behind a scenario.
type ScenarioType string

const (
	ScenarioBestCase   ScenarioType = "best_case"
	ScenarioWorstCase  ScenarioType = "worst_case"
	ScenarioMostLikely ScenarioType = "most_likely"
	ScenarioCustom     ScenarioType = "custom"
)

// Scenario is a hypothetical variant of a budget.
type Scenario struct {
	Base
	BudgetID      string       `gorm:"type:uuid;not null;index" json:"budget_id"`
	UserID        string       `gorm:"type:uuid;not null" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	ScenarioType  ScenarioType `gorm:"not null" json:"scenario_type"`
	Description   string       `json:"description"`
	TotalRevenue  float64      `gorm:"not null" json:"total_revenue"`
	TotalExpenses float64      `gorm:"not null" json:"total_expenses"`
	TotalProfit   float64      `gorm:"not null" json:"total_profit"`
}

// BeforeSave keeps profit derived from revenue and expenses.
func (s *Scenario) BeforeSave(tx *gorm.DB) error {
	s.TotalProfit = s.TotalRevenue - s.TotalExpenses
	return nil
}
