package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/analytics"
)

var (
	flagVarianceStart string
	flagVarianceEnd   string
)

var varianceCmd = &cobra.Command{
	Use:   "variance BUDGET_ID",
	Short: "Show budget versus actual for a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runVariance,
}

func init() {
	varianceCmd.Flags().StringVar(&flagVarianceStart, "start", "", "Window start (YYYY-MM-DD, default budget start)")
	varianceCmd.Flags().StringVar(&flagVarianceEnd, "end", "", "Window end (YYYY-MM-DD, default budget end)")
	rootCmd.AddCommand(varianceCmd)
}

func runVariance(cmd *cobra.Command, args []string) error {
	start, err := parseDateFlag("start", flagVarianceStart)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", flagVarianceEnd)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	v, err := client.CalculateVariance(ctx, args[0], start, end)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("VARIANCE"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Period: %s to %s\n\n", FormatDate(v.PeriodStart), FormatDate(v.PeriodEnd))
	fmt.Fprint(out, RenderTable(varianceTable(v)))
	return nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("--%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

func varianceTable(v *analytics.VarianceResult) Table {
	row := func(label string, metric analytics.Metric, budgeted, actual, variance, pct float64) []string {
		return []string{
			label,
			FormatMoney(budgeted),
			FormatMoney(actual),
			favorability(metric, variance, FormatSignedMoney(variance)),
			favorability(metric, variance, FormatPercent(pct)),
		}
	}

	return Table{
		Headers: []string{"Metric", "Budgeted", "Actual", "Variance", "%"},
		Rows: [][]string{
			row("Revenue", analytics.MetricRevenue, v.BudgetedRevenue, v.ActualRevenue, v.RevenueVariance, v.RevenueVariancePercent),
			row("Expense", analytics.MetricExpense, v.BudgetedExpense, v.ActualExpense, v.ExpenseVariance, v.ExpenseVariancePercent),
			row("Profit", analytics.MetricProfit, v.BudgetedProfit, v.ActualProfit, v.ProfitVariance, v.ProfitVariancePercent),
		},
	}
}

// favorability colors text green when the variance helps and red when it hurts.
func favorability(metric analytics.Metric, variance float64, text string) string {
	if analytics.IsFavorable(metric, variance) {
		return goodStyle.Render(text)
	}
	return badStyle.Render(text)
}
