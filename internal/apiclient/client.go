// Package apiclient is a typed client for the LedgerDesk REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20
	dateLayout     = "2006-01-02"

	// maxPageSize matches the server's page_size cap.
	maxPageSize = 100
	maxPages    = 1000
)

// Client talks to one LedgerDesk server with one bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL, e.g. http://localhost:8080. The /api/v1
// prefix is added per request.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result pairs a value with the error that may have prevented it. It lets a
// fan-out keep partial results.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the value is usable.
func (r Result[T]) OK() bool { return r.Err == nil }

func resultOf[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// do sends one request and decodes a 2xx JSON body into out. Every failure is
// an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: GenericMessage, cause: fmt.Errorf("marshaling request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return transportError(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return transportError(fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: GenericMessage, cause: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// Tokens is the pair returned by login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for tokens. The client keeps using its own
// token; callers construct a new Client with the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var out Tokens
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BudgetQuery filters the budget list server-side.
type BudgetQuery struct {
	Status     string
	PeriodType string
	Page       int
	PageSize   int
}

func (q BudgetQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.PeriodType != "" {
		v.Set("period_type", q.PeriodType)
	}
	pageValues(v, q.Page, q.PageSize)
	return v
}

func pageValues(v url.Values, page, pageSize int) {
	if page > 0 {
		v.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		v.Set("page_size", fmt.Sprint(pageSize))
	}
}

// GetBudgets lists the caller's budgets.
func (c *Client) GetBudgets(ctx context.Context, q BudgetQuery) (*pagination.PageResponse[models.Budget], error) {
	var out pagination.PageResponse[models.Budget]
	if err := c.do(ctx, http.MethodGet, "/budgets", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllBudgets walks every page of the budget list. Page and PageSize in q
// are ignored.
func (c *Client) ListAllBudgets(ctx context.Context, q BudgetQuery) ([]models.Budget, error) {
	q.PageSize = maxPageSize
	return collectPages(ctx, func(ctx context.Context, page int) (*pagination.PageResponse[models.Budget], error) {
		q.Page = page
		return c.GetBudgets(ctx, q)
	})
}

// collectPages fetches pages from 1 until the server reports no more, or a
// page comes back empty.
func collectPages[T any](ctx context.Context, fetch func(context.Context, int) (*pagination.PageResponse[T], error)) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		resp, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if len(resp.Data) == 0 || page >= resp.TotalPages {
			break
		}
	}
	return all, nil
}

// BudgetDetail is a budget with its planned totals.
type BudgetDetail struct {
	Budget models.Budget    `json:"budget"`
	Totals analytics.Totals `json:"totals"`
}

// GetBudget fetches one budget.
func (c *Client) GetBudget(ctx context.Context, budgetID string) (*BudgetDetail, error) {
	var out BudgetDetail
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateVariance fetches budget-versus-actual for a budget. Nil bounds use
// the budget's own period.
func (c *Client) CalculateVariance(ctx context.Context, budgetID string, start, end *time.Time) (*analytics.VarianceResult, error) {
	q := url.Values{}
	if start != nil {
		q.Set("start", start.Format(dateLayout))
	}
	if end != nil {
		q.Set("end", end.Format(dateLayout))
	}
	var out struct {
		Variance analytics.VarianceResult `json:"variance"`
	}
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID)+"/variance", q, nil, &out); err != nil {
		return nil, err
	}
	return &out.Variance, nil
}

// BudgetVariance is one line of the variance summary.
type BudgetVariance struct {
	BudgetID   string                   `json:"budget_id"`
	BudgetName string                   `json:"budget_name"`
	Status     models.BudgetStatus      `json:"status"`
	Variance   analytics.VarianceResult `json:"variance"`
}

// VarianceSummary covers every approved or active budget.
type VarianceSummary struct {
	Budgets []BudgetVariance         `json:"budgets"`
	Total   analytics.VarianceResult `json:"total"`
}

// GetVarianceSummary fetches the caller's variance summary.
func (c *Client) GetVarianceSummary(ctx context.Context) (*VarianceSummary, error) {
	var out VarianceSummary
	if err := c.do(ctx, http.MethodGet, "/variance/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetScenarios lists a budget's scenarios.
func (c *Client) GetScenarios(ctx context.Context, budgetID string) ([]models.Scenario, error) {
	var out struct {
		Scenarios []models.Scenario `json:"scenarios"`
	}
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID)+"/scenarios", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Scenarios, nil
}

// CompareScenarios fetches the scenario comparison of a budget.
func (c *Client) CompareScenarios(ctx context.Context, budgetID string) (*analytics.Comparison, error) {
	var out analytics.Comparison
	if err := c.do(ctx, http.MethodGet, "/budgets/"+url.PathEscape(budgetID)+"/scenarios/compare", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast is a stored forecast. DataPoints stays raw so summaries tolerate
// whatever shape the backend sent.
type Forecast struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	BudgetID     *string            `json:"budget_id,omitempty"`
	ForecastType string             `json:"forecast_type"`
	PeriodType   string             `json:"period_type"`
	Method       string             `json:"method"`
	MethodParams map[string]float64 `json:"method_params"`
	DataPoints   json.RawMessage    `json:"data_points"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Summary aggregates the forecast's data points.
func (f Forecast) Summary() analytics.ForecastSummary {
	return analytics.SummarizeForecastJSON(f.DataPoints)
}

// Points decodes the data points, returning nil when they are malformed.
func (f Forecast) Points() []analytics.ForecastPoint {
	var points []analytics.ForecastPoint
	if json.Unmarshal(f.DataPoints, &points) != nil {
		return nil
	}
	return points
}

// GetForecasts lists the caller's forecasts.
func (c *Client) GetForecasts(ctx context.Context, page, pageSize int) (*pagination.PageResponse[Forecast], error) {
	q := url.Values{}
	pageValues(q, page, pageSize)
	var out pagination.PageResponse[Forecast]
	if err := c.do(ctx, http.MethodGet, "/forecasts", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForecast fetches one forecast.
func (c *Client) GetForecast(ctx context.Context, forecastID string) (*Forecast, error) {
	var out struct {
		Forecast Forecast `json:"forecast"`
	}
	if err := c.do(ctx, http.MethodGet, "/forecasts/"+url.PathEscape(forecastID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Forecast, nil
}

// NotificationQuery filters the notification list server-side.
type NotificationQuery struct {
	Search   string
	Type     string
	Severity string
	Unread   bool
	Page     int
	PageSize int
}

func (q NotificationQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Severity != "" {
		v.Set("severity", q.Severity)
	}
	if q.Unread {
		v.Set("unread", "true")
	}
	pageValues(v, q.Page, q.PageSize)
	return v
}

// GetNotifications lists the caller's notifications.
func (c *Client) GetNotifications(ctx context.Context, q NotificationQuery) (*pagination.PageResponse[models.Notification], error) {
	var out pagination.PageResponse[models.Notification]
	if err := c.do(ctx, http.MethodGet, "/notifications", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllNotifications walks every page of the notification list. Page and
// PageSize in q are ignored.
func (c *Client) ListAllNotifications(ctx context.Context, q NotificationQuery) ([]models.Notification, error) {
	q.PageSize = maxPageSize
	return collectPages(ctx, func(ctx context.Context, page int) (*pagination.PageResponse[models.Notification], error) {
		q.Page = page
		return c.GetNotifications(ctx, q)
	})
}

// MarkAllRead marks every notification read and returns how many changed.
func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// GetHierarchy fetches the reporting tree.
func (c *Client) GetHierarchy(ctx context.Context) ([]*analytics.TreeNode, error) {
	var out struct {
		Hierarchy []*analytics.TreeNode `json:"hierarchy"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/hierarchy", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Hierarchy, nil
}
