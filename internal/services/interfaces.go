package services

import (
	"time"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	SetManager(userID string, managerID *string) (*models.User, error)
	GetHierarchy() ([]*analytics.TreeNode, error)
}

// BudgetFilter holds optional filters for listing budgets.
type BudgetFilter struct {
	Status     *models.BudgetStatus
	PeriodType *models.PeriodType
}

// BudgetUpdate carries the fields of a budget that may change while it is
// still editable. Nil fields are left alone.
type BudgetUpdate struct {
	Name       *string
	PeriodType *models.PeriodType
	StartDate  *time.Time
	EndDate    *time.Time
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name string, periodType models.PeriodType, startDate, endDate time.Time, items []models.BudgetItem) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	AddItem(userID, budgetID string, item models.BudgetItem) (*models.BudgetItem, error)
	RemoveItem(userID, budgetID, itemID string) error
	GetBudgetTotals(userID, budgetID string) (analytics.Totals, error)
}

// ApprovalServicer moves budgets through the submit/decide/activate workflow.
type ApprovalServicer interface {
	Submit(userID, budgetID string, approverID *string) (*models.Budget, error)
	Approve(userID, budgetID, note string) (*models.Budget, error)
	Reject(userID, budgetID, note string) (*models.Budget, error)
	Activate(userID, budgetID string) (*models.Budget, error)
	ListPending(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
}

// ActualServicer records realized revenue and expenses.
type ActualServicer interface {
	RecordActual(userID, budgetID string, entry models.ActualEntry) (*models.ActualEntry, error)
	ListActuals(userID, budgetID string, start, end *time.Time) ([]models.ActualEntry, error)
}

// BudgetVariance is one budget's line in the variance summary.
type BudgetVariance struct {
	BudgetID   string                   `json:"budget_id"`
	BudgetName string                   `json:"budget_name"`
	Status     models.BudgetStatus      `json:"status"`
	Variance   analytics.VarianceResult `json:"variance"`
}

// VarianceSummary is the variance of every committed budget plus the total.
type VarianceSummary struct {
	Budgets []BudgetVariance         `json:"budgets"`
	Total   analytics.VarianceResult `json:"total"`
}

// VarianceServicer compares budgets with their actuals.
type VarianceServicer interface {
	CalculateVariance(userID, budgetID string, start, end *time.Time) (*analytics.VarianceResult, error)
	GetVarianceSummary(userID string) (*VarianceSummary, error)
}

// ScenarioServicer manages what-if variants of budgets.
type ScenarioServicer interface {
	CreateScenario(userID, budgetID string, scenario models.Scenario) (*models.Scenario, error)
	GetScenarios(userID, budgetID string) ([]models.Scenario, error)
	DeleteScenario(userID, scenarioID string) error
	CompareScenarios(userID, budgetID string) (*analytics.Comparison, error)
}

// ForecastInput describes a forecast to generate.
type ForecastInput struct {
	Name         string
	BudgetID     *string
	ForecastType models.ForecastType
	PeriodType   models.PeriodType
	Method       analytics.Method
	MethodParams map[string]float64
	Periods      int
}

// ForecastDetail is a forecast with its aggregate.
type ForecastDetail struct {
	models.Forecast
	Summary analytics.ForecastSummary `json:"summary"`
}

// ForecastServicer generates and stores projections.
type ForecastServicer interface {
	CreateForecast(userID string, input ForecastInput) (*ForecastDetail, error)
	GetForecasts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Forecast], error)
	GetForecast(userID, forecastID string) (*ForecastDetail, error)
	DeleteForecast(userID, forecastID string) error
}

// NotificationFilter holds the list filters for notifications. Empty or
// "all" values do not filter.
type NotificationFilter struct {
	Search   string
	Type     string
	Severity string
	Unread   bool
}

// NotificationServicer delivers and tracks user notifications.
type NotificationServicer interface {
	Notify(userID, notificationType, title, message, actionURL string) (*models.Notification, error)
	GetNotifications(userID string, filter NotificationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID string) (*models.Notification, error)
	MarkAllRead(userID string) (int64, error)
	UnreadCount(userID string) (int64, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	GetUserAuditLogs(userID, resourceType string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
