// Package analytics holds the pure derivation functions shared by the API
// and its clients: variance, scenario comparison, forecast aggregation and
// projection, notification severity, list filtering and the reporting-line
// hierarchy. Nothing in here touches I/O or keeps state, so every function is
// safe for concurrent use.
package analytics

import "time"

// Metric names a financial figure that variance and comparison operate on.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricExpense Metric = "expense"
	MetricProfit  Metric = "profit"
)

// Variance is the difference between an actual and a budgeted figure.
type Variance struct {
	Variance        float64 `json:"variance"`
	VariancePercent float64 `json:"variance_percent"`
}

// ComputeVariance returns actual - budgeted and that difference as a
// percentage of budgeted. The percentage is 0 when budgeted is 0.
func ComputeVariance(budgeted, actual float64) Variance {
	v := Variance{Variance: actual - budgeted}
	if budgeted != 0 {
		v.VariancePercent = v.Variance / budgeted * 100
	}
	return v
}

// IsFavorable reports whether a variance benefits the organization.
// Spending less than planned is good, so expenses are favorable at or below
// zero; revenue and profit are favorable at or above zero.
func IsFavorable(metric Metric, variance float64) bool {
	if metric == MetricExpense {
		return variance <= 0
	}
	return variance >= 0
}

// Figures is a revenue/expense pair. Profit is always derived.
type Figures struct {
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
}

// Profit returns revenue minus expense.
func (f Figures) Profit() float64 {
	return f.Revenue - f.Expense
}

// Add returns the element-wise sum of two figure sets.
func (f Figures) Add(o Figures) Figures {
	return Figures{Revenue: f.Revenue + o.Revenue, Expense: f.Expense + o.Expense}
}

// VarianceResult compares budgeted and actual figures over a period.
type VarianceResult struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	BudgetedRevenue        float64 `json:"budgeted_revenue"`
	ActualRevenue          float64 `json:"actual_revenue"`
	RevenueVariance        float64 `json:"revenue_variance"`
	RevenueVariancePercent float64 `json:"revenue_variance_percent"`
	RevenueFavorable       bool    `json:"revenue_favorable"`

	BudgetedExpense        float64 `json:"budgeted_expense"`
	ActualExpense          float64 `json:"actual_expense"`
	ExpenseVariance        float64 `json:"expense_variance"`
	ExpenseVariancePercent float64 `json:"expense_variance_percent"`
	ExpenseFavorable       bool    `json:"expense_favorable"`

	BudgetedProfit        float64 `json:"budgeted_profit"`
	ActualProfit          float64 `json:"actual_profit"`
	ProfitVariance        float64 `json:"profit_variance"`
	ProfitVariancePercent float64 `json:"profit_variance_percent"`
	ProfitFavorable       bool    `json:"profit_favorable"`
}

// BuildVarianceResult applies ComputeVariance to revenue, expense and profit
// independently.
func BuildVarianceResult(start, end time.Time, budgeted, actual Figures) VarianceResult {
	rev := ComputeVariance(budgeted.Revenue, actual.Revenue)
	exp := ComputeVariance(budgeted.Expense, actual.Expense)
	prof := ComputeVariance(budgeted.Profit(), actual.Profit())

	return VarianceResult{
		PeriodStart: start,
		PeriodEnd:   end,

		BudgetedRevenue:        budgeted.Revenue,
		ActualRevenue:          actual.Revenue,
		RevenueVariance:        rev.Variance,
		RevenueVariancePercent: rev.VariancePercent,
		RevenueFavorable:       IsFavorable(MetricRevenue, rev.Variance),

		BudgetedExpense:        budgeted.Expense,
		ActualExpense:          actual.Expense,
		ExpenseVariance:        exp.Variance,
		ExpenseVariancePercent: exp.VariancePercent,
		ExpenseFavorable:       IsFavorable(MetricExpense, exp.Variance),

		BudgetedProfit:        budgeted.Profit(),
		ActualProfit:          actual.Profit(),
		ProfitVariance:        prof.Variance,
		ProfitVariancePercent: prof.VariancePercent,
		ProfitFavorable:       IsFavorable(MetricProfit, prof.Variance),
	}
}

// Of returns the variance pair for one metric of the result.
func (r VarianceResult) Of(metric Metric) Variance {
	switch metric {
	case MetricRevenue:
		return Variance{Variance: r.RevenueVariance, VariancePercent: r.RevenueVariancePercent}
	case MetricExpense:
		return Variance{Variance: r.ExpenseVariance, VariancePercent: r.ExpenseVariancePercent}
	default:
		return Variance{Variance: r.ProfitVariance, VariancePercent: r.ProfitVariancePercent}
	}
}
