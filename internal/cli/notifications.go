package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/apiclient"
	"ledgerdesk/internal/models"
)

var (
	flagNotifSearch   string
	flagNotifType     string
	flagNotifSeverity string
	flagNotifUnread   bool
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs"},
	Short:   "List notifications",
	RunE:    runNotifications,
}

var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification read",
	Args:  cobra.NoArgs,
	RunE:  runReadAll,
}

func init() {
	notificationsCmd.Flags().StringVarP(&flagNotifSearch, "search", "s", "", "Search title and message")
	notificationsCmd.Flags().StringVar(&flagNotifType, "type", analytics.SelectAll, "Filter by type")
	notificationsCmd.Flags().StringVar(&flagNotifSeverity, "severity", analytics.SelectAll, "Filter by severity (success, error, warning, info)")
	notificationsCmd.Flags().BoolVar(&flagNotifUnread, "unread", false, "Only unread notifications")
	notificationsCmd.AddCommand(readAllCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func runNotifications(cmd *cobra.Command, _ []string) error {
	if flagNotifSeverity != analytics.SelectAll && !analytics.IsSeverity(flagNotifSeverity) {
		return fmt.Errorf("unknown severity %q", flagNotifSeverity)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	all, err := client.ListAllNotifications(ctx, apiclient.NotificationQuery{Unread: flagNotifUnread})
	if err != nil {
		return err
	}
	notifications := filterNotifications(all, flagNotifSearch, flagNotifType, flagNotifSeverity)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("NOTIFICATIONS"))
	fmt.Fprintln(out)
	if len(notifications) == 0 {
		fmt.Fprintln(out, RenderEmpty("notifications"))
		return nil
	}
	for _, n := range notifications {
		fmt.Fprintln(out, notificationLine(n))
	}
	return nil
}

func runReadAll(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	n, err := client.MarkAllRead(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Marked %d notifications read\n", n)
	return nil
}

// filterNotifications derives severity from the type locally, so filtering
// works the same against servers that do not send it.
func filterNotifications(items []models.Notification, search, typ, severity string) []models.Notification {
	return analytics.FilterItems(items, analytics.Filter[models.Notification]{
		Search: search,
		SearchFields: func(n models.Notification) []string {
			return []string{n.Title, n.Message}
		},
		Categorical: []analytics.Categorical[models.Notification]{
			{Field: func(n models.Notification) string { return n.Type }, Selected: typ},
			{Field: func(n models.Notification) string { return string(analytics.Classify(n.Type)) }, Selected: severity},
		},
	})
}

func notificationLine(n models.Notification) string {
	sev := analytics.Classify(n.Type)
	marker := " "
	if !n.IsRead {
		marker = "●"
	}
	line := fmt.Sprintf("  %s %s  %s", marker, severityStyle(sev).Render(fmt.Sprintf("%-7s", sev)), n.Title)
	if n.Message != "" {
		line += "\n            " + mutedStyle.Render(n.Message)
	}
	return line
}

func severityStyle(s analytics.Severity) lipgloss.Style {
	switch s {
	case analytics.SeveritySuccess:
		return goodStyle
	case analytics.SeverityError:
		return badStyle
	case analytics.SeverityWarning:
		return warnStyle
	default:
		return infoStyle
	}
}
