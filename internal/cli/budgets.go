package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/apiclient"
	"ledgerdesk/internal/models"
)

var (
	flagBudgetSearch string
	flagBudgetStatus string
	flagBudgetPeriod string
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List budgets",
	RunE:  runBudgets,
}

func init() {
	budgetsCmd.Flags().StringVarP(&flagBudgetSearch, "search", "s", "", "Search name, item names and categories")
	budgetsCmd.Flags().StringVar(&flagBudgetStatus, "status", analytics.SelectAll, "Filter by status")
	budgetsCmd.Flags().StringVar(&flagBudgetPeriod, "period", analytics.SelectAll, "Filter by period type")
	rootCmd.AddCommand(budgetsCmd)
}

func runBudgets(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	all, err := client.ListAllBudgets(ctx, apiclient.BudgetQuery{})
	if err != nil {
		return err
	}

	budgets := filterBudgets(all, flagBudgetSearch, flagBudgetStatus, flagBudgetPeriod)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("BUDGETS"))
	fmt.Fprintln(out)
	if len(budgets) == 0 {
		fmt.Fprintln(out, RenderEmpty("budgets"))
		return nil
	}
	fmt.Fprint(out, RenderTable(budgetTable(budgets)))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  %d of %d budgets", len(budgets), len(all))))
	return nil
}

func filterBudgets(budgets []models.Budget, search, status, period string) []models.Budget {
	return analytics.FilterItems(budgets, analytics.Filter[models.Budget]{
		Search: search,
		SearchFields: func(b models.Budget) []string {
			fields := []string{b.Name}
			for _, item := range b.Items {
				fields = append(fields, item.Name, item.Category)
			}
			return fields
		},
		Categorical: []analytics.Categorical[models.Budget]{
			{Field: func(b models.Budget) string { return string(b.Status) }, Selected: status},
			{Field: func(b models.Budget) string { return string(b.PeriodType) }, Selected: period},
		},
	})
}

func budgetTable(budgets []models.Budget) Table {
	t := Table{Headers: []string{"Name", "Period", "Status", "Start", "End", "Revenue", "Expense", "Profit"}}
	for i := range budgets {
		b := &budgets[i]
		totals := analytics.TotalsFrom(b.Figures())
		t.Rows = append(t.Rows, []string{
			b.Name,
			string(b.PeriodType),
			statusLabel(b.Status),
			FormatDate(b.StartDate),
			FormatDate(b.EndDate),
			FormatMoney(totals.Revenue),
			FormatMoney(totals.Expenses),
			FormatMoney(totals.Profit),
		})
	}
	return t
}

func statusLabel(s models.BudgetStatus) string {
	switch s {
	case models.BudgetStatusApproved, models.BudgetStatusActive:
		return goodStyle.Render(string(s))
	case models.BudgetStatusRejected:
		return badStyle.Render(string(s))
	case models.BudgetStatusSubmitted:
		return warnStyle.Render(string(s))
	default:
		return string(s)
	}
}
