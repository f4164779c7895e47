package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/analytics"
)

var compareCmd = &cobra.Command{
	Use:   "compare BUDGET_ID",
	Short: "Compare a budget's what-if scenarios",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cmp, err := client.CompareScenarios(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("SCENARIOS"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Base: revenue %s, expenses %s, profit %s\n\n",
		FormatMoney(cmp.Base.Revenue), FormatMoney(cmp.Base.Expenses), FormatMoney(cmp.Base.Profit))

	if len(cmp.Scenarios) == 0 {
		fmt.Fprintln(out, RenderEmpty("scenarios"))
		return nil
	}
	fmt.Fprint(out, RenderTable(comparisonTable(cmp)))
	if best, ok := cmp.Best(); ok {
		fmt.Fprintf(out, "  Best: %s (%s profit)\n", bestStyle.Render(best.Name), FormatSignedMoney(best.Profit.Difference))
	}
	return nil
}

func comparisonTable(cmp *analytics.Comparison) Table {
	t := Table{Headers: []string{"Scenario", "Type", "Revenue", "Expenses", "Profit", "Profit %"}}
	for i, s := range cmp.Scenarios {
		name := s.Name
		if i == cmp.BestIndex {
			name = bestStyle.Render("* " + s.Name)
		}
		t.Rows = append(t.Rows, []string{
			name,
			s.ScenarioType,
			favorability(analytics.MetricRevenue, s.Revenue.Difference, FormatSignedMoney(s.Revenue.Difference)),
			favorability(analytics.MetricExpense, s.Expenses.Difference, FormatSignedMoney(s.Expenses.Difference)),
			favorability(analytics.MetricProfit, s.Profit.Difference, FormatSignedMoney(s.Profit.Difference)),
			FormatPercent(s.Profit.PercentChange),
		})
	}
	return t
}
