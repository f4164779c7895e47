// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/models"
)

// enums maps each custom tag to the values it accepts.
var enums = map[string]map[string]bool{
	"period_type": set(models.PeriodMonthly, models.PeriodQuarterly, models.PeriodYearly),
	"budget_status": set(models.BudgetStatusDraft, models.BudgetStatusSubmitted, models.BudgetStatusApproved,
		models.BudgetStatusActive, models.BudgetStatusRejected),
	"item_type":       set(models.ItemTypeRevenue, models.ItemTypeExpense),
	"scenario_type":   set(models.ScenarioBestCase, models.ScenarioWorstCase, models.ScenarioMostLikely, models.ScenarioCustom),
	"forecast_type":   set(models.ForecastRevenue, models.ForecastExpense, models.ForecastProfit, models.ForecastAll),
	"forecast_method": set(analytics.MethodMovingAverage, analytics.MethodLinearGrowth, analytics.MethodTrend),
	"user_role":       set(models.UserRoleAdmin, models.UserRoleAccountant, models.UserRoleManager, models.UserRoleViewer),
	"severity":        set(analytics.SeveritySuccess, analytics.SeverityError, analytics.SeverityWarning, analytics.SeverityInfo),
}

func set[S ~string](values ...S) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[string(v)] = true
	}
	return m
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		for tag, allowed := range enums {
			_ = v.RegisterValidation(tag, oneOf(allowed))
		}
	}
}

// Valid reports whether value is accepted by the named enum tag. Handlers use
// it for query parameters, which do not go through struct binding.
func Valid(tag, value string) bool {
	return enums[tag][value]
}

func oneOf(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}
