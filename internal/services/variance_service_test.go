package services

import (
	"testing"
	"time"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/testutil"
)

func TestCalculateVariance(t *testing.T) {
	t.Run("revenue_short_expense_under", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVarianceService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudgetWithItems(t, db, user.ID, []models.BudgetItem{
			{Name: "Sales", Type: models.ItemTypeRevenue, Amount: 10000},
			{Name: "Costs", Type: models.ItemTypeExpense, Amount: 5000},
		})
		testutil.SetBudgetStatus(t, db, budget, models.BudgetStatusActive)
		testutil.CreateTestActual(t, db, budget, models.ItemTypeRevenue, 9000, testutil.Date(2026, time.January, 10))
		testutil.CreateTestActual(t, db, budget, models.ItemTypeExpense, 4000, testutil.Date(2026, time.January, 31))
		testutil.CreateTestActual(t, db, budget, models.ItemTypeExpense, 999, testutil.Date(2026, time.February, 1))

		result, err := svc.CalculateVariance(user.ID, budget.ID, nil, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, "revenue_variance", result.RevenueVariance, -1000)
		testutil.AssertAmount(t, "revenue_variance_percent", result.RevenueVariancePercent, -10)
		testutil.AssertAmount(t, "expense_variance", result.ExpenseVariance, -1000)
		testutil.AssertAmount(t, "expense_variance_percent", result.ExpenseVariancePercent, -20)
		testutil.AssertAmount(t, "budgeted_profit", result.BudgetedProfit, 5000)
		testutil.AssertAmount(t, "actual_profit", result.ActualProfit, 5000)
		testutil.AssertAmount(t, "profit_variance", result.ProfitVariance, 0)

		if result.RevenueFavorable {
			t.Error("revenue shortfall should be unfavorable")
		}
		if !result.ExpenseFavorable {
			t.Error("expense underspend should be favorable")
		}
		if !result.ProfitFavorable {
			t.Error("zero profit variance should be favorable")
		}
		if !result.PeriodStart.Equal(budget.StartDate) || !result.PeriodEnd.Equal(budget.EndDate) {
			t.Errorf("expected budget window, got %s..%s", result.PeriodStart, result.PeriodEnd)
		}
	})

	t.Run("custom_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVarianceService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID)
		testutil.CreateTestActual(t, db, budget, models.ItemTypeRevenue, 100, testutil.Date(2026, time.January, 3))
		testutil.CreateTestActual(t, db, budget, models.ItemTypeRevenue, 200, testutil.Date(2026, time.January, 20))

		start := testutil.Date(2026, time.January, 15)
		end := testutil.Date(2026, time.January, 25)
		result, err := svc.CalculateVariance(user.ID, budget.ID, &start, &end)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "actual_revenue", result.ActualRevenue, 200)
		testutil.AssertAmount(t, "budgeted_revenue", result.BudgetedRevenue, 10000)

		_, err = svc.CalculateVariance(user.ID, budget.ID, &end, &start)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("zero_budget_percent_is_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVarianceService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudgetWithItems(t, db, user.ID, nil)
		testutil.CreateTestActual(t, db, budget, models.ItemTypeExpense, 300, testutil.Date(2026, time.January, 3))

		result, err := svc.CalculateVariance(user.ID, budget.ID, nil, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "expense_variance", result.ExpenseVariance, 300)
		testutil.AssertAmount(t, "expense_variance_percent", result.ExpenseVariancePercent, 0)
		if result.ExpenseFavorable {
			t.Error("overspend should be unfavorable")
		}
	})

	t.Run("not_visible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVarianceService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID)

		_, err := svc.CalculateVariance(other.ID, budget.ID, nil, nil)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetVarianceSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewVarianceService(db)
	user := testutil.CreateTestUser(t, db)

	jan := testutil.CreateTestBudget(t, db, user.ID)
	testutil.SetBudgetStatus(t, db, jan, models.BudgetStatusActive)
	testutil.CreateTestActual(t, db, jan, models.ItemTypeRevenue, 11000, testutil.Date(2026, time.January, 9))
	testutil.CreateTestActual(t, db, jan, models.ItemTypeExpense, 7000, testutil.Date(2026, time.January, 9))

	feb := testutil.CreateTestBudget(t, db, user.ID)
	db.Model(feb).Updates(map[string]interface{}{
		"start_date": testutil.Date(2026, time.February, 1),
		"end_date":   testutil.Date(2026, time.February, 28),
	})
	testutil.SetBudgetStatus(t, db, feb, models.BudgetStatusApproved)
	testutil.CreateTestActual(t, db, feb, models.ItemTypeExpense, 9000, testutil.Date(2026, time.February, 2))

	testutil.CreateTestBudget(t, db, user.ID) // draft, excluded

	summary, err := svc.GetVarianceSummary(user.ID)
	testutil.AssertNoError(t, err)

	if len(summary.Budgets) != 2 {
		t.Fatalf("expected 2 committed budgets, got %d", len(summary.Budgets))
	}
	if summary.Budgets[0].BudgetID != jan.ID {
		t.Errorf("expected January first, got %s", summary.Budgets[0].BudgetName)
	}
	testutil.AssertAmount(t, "jan revenue variance", summary.Budgets[0].Variance.RevenueVariance, 1000)
	testutil.AssertAmount(t, "feb expense variance", summary.Budgets[1].Variance.ExpenseVariance, 1000)

	total := summary.Total
	testutil.AssertAmount(t, "total budgeted revenue", total.BudgetedRevenue, 20000)
	testutil.AssertAmount(t, "total actual revenue", total.ActualRevenue, 11000)
	testutil.AssertAmount(t, "total budgeted expense", total.BudgetedExpense, 16000)
	testutil.AssertAmount(t, "total actual expense", total.ActualExpense, 16000)
	if !total.PeriodStart.Equal(testutil.Date(2026, time.January, 1)) || !total.PeriodEnd.Equal(testutil.Date(2026, time.February, 28)) {
		t.Errorf("unexpected total window %s..%s", total.PeriodStart, total.PeriodEnd)
	}
}
