package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/apiclient"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast [FORECAST_ID]",
	Short: "List forecasts, or show one forecast's projection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		page, err := client.GetForecasts(ctx, 1, 50)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, RenderTitle("FORECASTS"))
		fmt.Fprintln(out)
		if len(page.Data) == 0 {
			fmt.Fprintln(out, RenderEmpty("forecasts"))
			return nil
		}
		fmt.Fprint(out, RenderTable(forecastListTable(page.Data)))
		return nil
	}

	f, err := client.GetForecast(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("FORECAST: "+f.Name))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s %s, %s periods\n\n", f.Method, f.ForecastType, f.PeriodType)
	fmt.Fprint(out, RenderTable(forecastPointsTable(f)))

	s := f.Summary()
	fmt.Fprintf(out, "  %d periods, total %s, average %s\n", s.Count, FormatMoney(s.Total), FormatMoney(s.Average))
	return nil
}

func forecastListTable(forecasts []apiclient.Forecast) Table {
	t := Table{Headers: []string{"Name", "Type", "Method", "Periods", "Total", "Average"}}
	for _, f := range forecasts {
		s := f.Summary()
		t.Rows = append(t.Rows, []string{
			f.Name,
			f.ForecastType,
			f.Method,
			strconv.Itoa(s.Count),
			FormatMoney(s.Total),
			FormatMoney(s.Average),
		})
	}
	return t
}

func forecastPointsTable(f *apiclient.Forecast) Table {
	t := Table{Headers: []string{"Period", "Date", "Forecast"}}
	for _, p := range f.Points() {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(p.Period),
			FormatDate(p.Date),
			FormatMoney(p.ForecastedValue),
		})
	}
	return t
}
