package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeVariance(t *testing.T) {
	tests := []struct {
		name        string
		budgeted    float64
		actual      float64
		wantVar     float64
		wantPercent float64
	}{
		{"under_budget", 10000, 9000, -1000, -10},
		{"over_budget", 5000, 6000, 1000, 20},
		{"exact", 250, 250, 0, 0},
		{"zero_budget_positive_actual", 0, 300, 300, 0},
		{"zero_budget_negative_actual", 0, -75, -75, 0},
		{"zero_budget_zero_actual", 0, 0, 0, 0},
		{"negative_budget", -200, -100, 100, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeVariance(tt.budgeted, tt.actual)
			assert.Equal(t, tt.wantVar, got.Variance)
			assert.InDelta(t, tt.wantPercent, got.VariancePercent, 1e-9)
		})
	}
}

func TestComputeVariance_DifferenceIsExact(t *testing.T) {
	pairs := [][2]float64{{0.1, 0.3}, {1e9, 1e9 + 1}, {-3.5, 7.25}, {42, 0}}
	for _, p := range pairs {
		got := ComputeVariance(p[0], p[1])
		assert.Equal(t, p[1]-p[0], got.Variance, "budgeted=%v actual=%v", p[0], p[1])
	}
}

func TestIsFavorable(t *testing.T) {
	t.Run("expense_favorable_at_or_below_zero", func(t *testing.T) {
		assert.True(t, IsFavorable(MetricExpense, -1000))
		assert.True(t, IsFavorable(MetricExpense, 0))
		assert.False(t, IsFavorable(MetricExpense, 0.01))
	})

	t.Run("revenue_favorable_at_or_above_zero", func(t *testing.T) {
		assert.True(t, IsFavorable(MetricRevenue, 1000))
		assert.True(t, IsFavorable(MetricRevenue, 0))
		assert.False(t, IsFavorable(MetricRevenue, -0.01))
	})

	t.Run("profit_favorable_at_or_above_zero", func(t *testing.T) {
		assert.True(t, IsFavorable(MetricProfit, 5))
		assert.True(t, IsFavorable(MetricProfit, 0))
		assert.False(t, IsFavorable(MetricProfit, -5))
	})
}

func TestBuildVarianceResult(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	r := BuildVarianceResult(start, end,
		Figures{Revenue: 10000, Expense: 5000},
		Figures{Revenue: 9000, Expense: 4000},
	)

	require.Equal(t, start, r.PeriodStart)
	require.Equal(t, end, r.PeriodEnd)

	assert.Equal(t, -1000.0, r.RevenueVariance)
	assert.InDelta(t, -10.0, r.RevenueVariancePercent, 1e-9)
	assert.False(t, r.RevenueFavorable)

	assert.Equal(t, -1000.0, r.ExpenseVariance)
	assert.InDelta(t, -20.0, r.ExpenseVariancePercent, 1e-9)
	assert.True(t, r.ExpenseFavorable, "lower expense than budgeted is favorable")

	assert.Equal(t, 5000.0, r.BudgetedProfit)
	assert.Equal(t, 5000.0, r.ActualProfit)
	assert.Equal(t, 0.0, r.ProfitVariance)
	assert.Equal(t, 0.0, r.ProfitVariancePercent)
	assert.True(t, r.ProfitFavorable)

	for _, m := range []Metric{MetricRevenue, MetricExpense, MetricProfit} {
		v := r.Of(m)
		assert.Equal(t, v, ComputeVariance(budgetedOf(r, m), actualOf(r, m)), "metric %s", m)
	}
}

func budgetedOf(r VarianceResult, m Metric) float64 {
	switch m {
	case MetricRevenue:
		return r.BudgetedRevenue
	case MetricExpense:
		return r.BudgetedExpense
	}
	return r.BudgetedProfit
}

func actualOf(r VarianceResult, m Metric) float64 {
	switch m {
	case MetricRevenue:
		return r.ActualRevenue
	case MetricExpense:
		return r.ActualExpense
	}
	return r.ActualProfit
}

func TestFigures(t *testing.T) {
	f := Figures{Revenue: 100, Expense: 30}.Add(Figures{Revenue: 50, Expense: 200})
	assert.Equal(t, Figures{Revenue: 150, Expense: 230}, f)
	assert.Equal(t, -80.0, f.Profit())
}
