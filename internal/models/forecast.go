package models

import "ledgerdesk/internal/analytics"

// ForecastType is the figure a forecast projects.
type ForecastType string

const (
	ForecastRevenue ForecastType = "revenue"
	ForecastExpense ForecastType = "expense"
	ForecastProfit  ForecastType = "profit"
	ForecastAll     ForecastType = "all"
)

// Forecast is a stored projection together with the parameters that produced it.
type Forecast struct {
	Base
	UserID       string                    `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID     *string                   `gorm:"type:uuid;index" json:"budget_id,omitempty"`
	Name         string                    `gorm:"not null" json:"name"`
	ForecastType ForecastType              `gorm:"not null" json:"forecast_type"`
	PeriodType   PeriodType                `gorm:"not null" json:"period_type"`
	Method       analytics.Method          `gorm:"not null" json:"method"`
	MethodParams map[string]float64        `gorm:"serializer:json" json:"method_params"`
	DataPoints   []analytics.ForecastPoint `gorm:"serializer:json" json:"data_points"`
}
