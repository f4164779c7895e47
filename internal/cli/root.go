package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/apiclient"
)

var (
	flagAPIURL  string
	flagToken   string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "LedgerDesk command line client",
	Long:          "Browse budgets, variance, scenarios, forecasts and notifications of a LedgerDesk server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "  "+badStyle.Render("Error: "+errorMessage(err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "LedgerDesk server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Access token (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")
}

// settings loads the config file and applies flag and env overrides.
func settings() (Settings, error) {
	s, err := LoadSettings()
	if err != nil {
		return s, err
	}
	return s.Resolve(flagAPIURL, flagToken), nil
}

// newClient returns an API client for the resolved settings. Commands that
// need an identity fail early when no token is configured.
func newClient() (*apiclient.Client, error) {
	s, err := settings()
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, errors.New("not logged in; run `ledgerctl login` or pass --token")
	}
	return apiclient.New(s.APIURL, s.Token), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, flagTimeout)
}

// errorMessage turns client failures into something a user can act on.
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch {
	case apiErr.Unauthorized():
		return "session expired or token invalid; run `ledgerctl login`"
	case apiErr.Status == 0:
		return "could not reach the server: " + apiErr.Message
	default:
		return apiErr.Message
	}
}
