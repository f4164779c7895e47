package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/apiclient"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Overview of budgets, variance, notifications and forecasts",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := client.LoadDashboard(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("LEDGERDESK"))
	fmt.Fprintln(out)
	renderDashboard(out, d)
	return nil
}

// renderDashboard prints each section independently; a section whose fetch
// failed shows its error instead of data.
func renderDashboard(out io.Writer, d *apiclient.Dashboard) {
	if d.Variance.OK() {
		t := varianceTable(&d.Variance.Value.Total)
		t.Title = "Variance (approved and active budgets)"
		fmt.Fprint(out, RenderTable(t))
	} else {
		sectionError(out, "Variance", d.Variance.Err)
	}
	fmt.Fprintln(out)

	if d.Budgets.OK() {
		t := budgetTable(d.Budgets.Value.Data)
		t.Title = "Recent budgets"
		if len(t.Rows) == 0 {
			fmt.Fprintln(out, RenderEmpty("budgets"))
		} else {
			fmt.Fprint(out, RenderTable(t))
		}
	} else {
		sectionError(out, "Budgets", d.Budgets.Err)
	}
	fmt.Fprintln(out)

	if d.Notifications.OK() {
		fmt.Fprintln(out, "  "+headerStyle.Render(fmt.Sprintf("Unread notifications (%d)", d.Notifications.Value.TotalItems)))
		for _, n := range d.Notifications.Value.Data {
			fmt.Fprintln(out, notificationLine(n))
		}
	} else {
		sectionError(out, "Notifications", d.Notifications.Err)
	}
	fmt.Fprintln(out)

	if d.Forecasts.OK() {
		t := forecastListTable(d.Forecasts.Value.Data)
		t.Title = "Latest forecasts"
		if len(t.Rows) == 0 {
			fmt.Fprintln(out, RenderEmpty("forecasts"))
		} else {
			fmt.Fprint(out, RenderTable(t))
		}
	} else {
		sectionError(out, "Forecasts", d.Forecasts.Err)
	}
}

func sectionError(out io.Writer, section string, err error) {
	fmt.Fprintf(out, "  %s: %s\n", headerStyle.Render(section), badStyle.Render(errorMessage(err)))
}
