package apiclient

import (
	"context"

	"golang.org/x/sync/errgroup"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// Dashboard is the overview screen's data. Each part loads independently so a
// failing endpoint does not blank the others.
type Dashboard struct {
	Budgets       Result[*pagination.PageResponse[models.Budget]]
	Variance      Result[*VarianceSummary]
	Notifications Result[*pagination.PageResponse[models.Notification]]
	Forecasts     Result[*pagination.PageResponse[Forecast]]
}

// LoadDashboard fetches the dashboard parts in parallel. If ctx is cancelled
// before every part is back, the partial results are discarded and the
// context error is returned.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Budgets = resultOf(c.GetBudgets(gctx, BudgetQuery{PageSize: 10}))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Variance = resultOf(c.GetVarianceSummary(gctx))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Notifications = resultOf(c.GetNotifications(gctx, NotificationQuery{Unread: true, PageSize: 10}))
		return ctx.Err()
	})
	g.Go(func() error {
		d.Forecasts = resultOf(c.GetForecasts(gctx, 1, 5))
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
