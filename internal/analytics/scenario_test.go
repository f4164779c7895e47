package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareScenarios(t *testing.T) {
	base := Totals{Revenue: 10000, Expenses: 6000, Profit: 4000}

	t.Run("deltas_and_best", func(t *testing.T) {
		scenarios := []ScenarioFigures{
			{ID: "worst", Name: "Worst", ScenarioType: "worst_case", TotalRevenue: 8000, TotalExpenses: 7000, TotalProfit: 1000},
			{ID: "best", Name: "Best", ScenarioType: "best_case", TotalRevenue: 12000, TotalExpenses: 6000, TotalProfit: 6000},
		}

		cmp := CompareScenarios(base, scenarios)
		require.Len(t, cmp.Scenarios, 2)
		assert.Equal(t, base, cmp.Base)

		worst := cmp.Scenarios[0]
		assert.Equal(t, -2000.0, worst.Revenue.Difference)
		assert.InDelta(t, -20.0, worst.Revenue.PercentChange, 1e-9)
		assert.Equal(t, 1000.0, worst.Expenses.Difference)
		assert.InDelta(t, 16.666666, worst.Expenses.PercentChange, 1e-5)
		assert.Equal(t, -3000.0, worst.Profit.Difference)
		assert.InDelta(t, -75.0, worst.Profit.PercentChange, 1e-9)

		assert.Equal(t, 1, cmp.BestIndex)
		assert.Equal(t, "best", cmp.BestScenarioID)
		best, ok := cmp.Best()
		require.True(t, ok)
		assert.Equal(t, "Best", best.Name)
	})

	t.Run("zero_diff_scenario", func(t *testing.T) {
		cmp := CompareScenarios(base, []ScenarioFigures{
			{ID: "same", TotalRevenue: 10000, TotalExpenses: 6000, TotalProfit: 4000},
		})
		s := cmp.Scenarios[0]
		for _, d := range []Delta{s.Revenue, s.Expenses, s.Profit} {
			assert.Equal(t, 0.0, d.Difference)
			assert.Equal(t, 0.0, d.PercentChange)
		}
	})

	t.Run("zero_base_percent_is_zero", func(t *testing.T) {
		cmp := CompareScenarios(Totals{}, []ScenarioFigures{
			{ID: "a", TotalRevenue: 500, TotalExpenses: 200, TotalProfit: 300},
		})
		s := cmp.Scenarios[0]
		assert.Equal(t, 500.0, s.Revenue.Difference)
		assert.Equal(t, 0.0, s.Revenue.PercentChange)
		assert.Equal(t, 0.0, s.Profit.PercentChange)
	})

	t.Run("empty_list", func(t *testing.T) {
		cmp := CompareScenarios(base, nil)
		assert.NotNil(t, cmp.Scenarios)
		assert.Empty(t, cmp.Scenarios)
		assert.Equal(t, -1, cmp.BestIndex)
		assert.Empty(t, cmp.BestScenarioID)
		_, ok := cmp.Best()
		assert.False(t, ok)
	})

	t.Run("tie_keeps_first_in_input_order", func(t *testing.T) {
		scenarios := []ScenarioFigures{
			{ID: "low", TotalProfit: 3000},
			{ID: "first", TotalProfit: 5000},
			{ID: "second", TotalProfit: 5000},
		}
		for n := 0; n < 10; n++ {
			cmp := CompareScenarios(base, scenarios)
			assert.Equal(t, 1, cmp.BestIndex)
			assert.Equal(t, "first", cmp.BestScenarioID)
		}
	})

	t.Run("all_negative_deltas_still_pick_best", func(t *testing.T) {
		cmp := CompareScenarios(base, []ScenarioFigures{
			{ID: "bad", TotalProfit: -100},
			{ID: "less_bad", TotalProfit: 100},
		})
		assert.Equal(t, "less_bad", cmp.BestScenarioID)
	})
}

func TestTotalsFrom(t *testing.T) {
	assert.Equal(t, Totals{Revenue: 9, Expenses: 4, Profit: 5}, TotalsFrom(Figures{Revenue: 9, Expense: 4}))
}
