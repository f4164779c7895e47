package analytics

// Totals is the revenue/expenses/profit triple a scenario is compared on.
type Totals struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// TotalsFrom converts budget figures into comparison totals.
func TotalsFrom(f Figures) Totals {
	return Totals{Revenue: f.Revenue, Expenses: f.Expense, Profit: f.Profit()}
}

// ScenarioFigures is the read-only input for one scenario.
type ScenarioFigures struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ScenarioType  string  `json:"scenario_type"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalProfit   float64 `json:"total_profit"`
}

// Delta describes how one metric of a scenario moved against the base.
type Delta struct {
	Base          float64 `json:"base"`
	Value         float64 `json:"value"`
	Difference    float64 `json:"difference"`
	PercentChange float64 `json:"percent_change"`
}

func newDelta(base, value float64) Delta {
	d := Delta{Base: base, Value: value, Difference: value - base}
	if base != 0 {
		d.PercentChange = d.Difference / base * 100
	}
	return d
}

// ScenarioComparison is a scenario set against the base.
type ScenarioComparison struct {
	ScenarioID   string `json:"scenario_id"`
	Name         string `json:"name"`
	ScenarioType string `json:"scenario_type"`
	Revenue      Delta  `json:"revenue"`
	Expenses     Delta  `json:"expenses"`
	Profit       Delta  `json:"profit"`
}

// Comparison is the outcome of CompareScenarios. BestIndex is -1 when there
// are no scenarios.
type Comparison struct {
	Base           Totals               `json:"base"`
	Scenarios      []ScenarioComparison `json:"scenarios"`
	BestIndex      int                  `json:"best_index"`
	BestScenarioID string               `json:"best_scenario_id,omitempty"`
}

// Best returns the highlighted scenario, if any.
func (c Comparison) Best() (ScenarioComparison, bool) {
	if c.BestIndex < 0 || c.BestIndex >= len(c.Scenarios) {
		return ScenarioComparison{}, false
	}
	return c.Scenarios[c.BestIndex], true
}

// CompareScenarios computes per-metric deltas of every scenario against base
// and selects the scenario with the largest profit difference. Ties keep the
// earliest scenario in input order.
func CompareScenarios(base Totals, scenarios []ScenarioFigures) Comparison {
	out := Comparison{
		Base:      base,
		Scenarios: make([]ScenarioComparison, 0, len(scenarios)),
		BestIndex: -1,
	}

	for i, s := range scenarios {
		cmp := ScenarioComparison{
			ScenarioID:   s.ID,
			Name:         s.Name,
			ScenarioType: s.ScenarioType,
			Revenue:      newDelta(base.Revenue, s.TotalRevenue),
			Expenses:     newDelta(base.Expenses, s.TotalExpenses),
			Profit:       newDelta(base.Profit, s.TotalProfit),
		}
		out.Scenarios = append(out.Scenarios, cmp)

		if out.BestIndex < 0 || cmp.Profit.Difference > out.Scenarios[out.BestIndex].Profit.Difference {
			out.BestIndex = i
		}
	}

	if best, ok := out.Best(); ok {
		out.BestScenarioID = best.ScenarioID
	}
	return out
}
