package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/config"
	"ledgerdesk/internal/logger"
	"ledgerdesk/internal/testutil"
	"ledgerdesk/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path, token, body string, headers ...string) (int, map[string]interface{}) {
	a.t.Helper()
	req := httptest.NewRequest(method, "/api/v1"+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("failed to parse response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

// expect runs a request and fails the test unless it returns want.
func (a apiClient) expect(want int, method, path, token, body string, headers ...string) map[string]interface{} {
	a.t.Helper()
	code, out := a.do(method, path, token, body, headers...)
	if code != want {
		a.t.Fatalf("%s %s: status = %d, want %d: %v", method, path, code, want, out)
	}
	return out
}

func (a apiClient) register(email string) (token, id string) {
	a.t.Helper()
	body := a.expect(http.StatusCreated, "POST", "/auth/register", "", `{"email":"`+email+`","password":"password123","first_name":"T"}`)
	return body["access_token"].(string), object(body, "user")["id"].(string)
}

func object(body map[string]interface{}, key string) map[string]interface{} {
	m, _ := body[key].(map[string]interface{})
	return m
}

func assertField(t *testing.T, body map[string]interface{}, key string, want interface{}) {
	t.Helper()
	if got := body[key]; got != want {
		t.Errorf("%s = %v, want %v", key, got, want)
	}
}

func assertFloat(t *testing.T, body map[string]interface{}, key string, want float64) {
	t.Helper()
	got, ok := body[key].(float64)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", key, body[key], want)
	}
}

func setup(t *testing.T) apiClient {
	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        "integration-secret",
		JWTExpirationDur: 15 * time.Minute,
		PipelineAPIKey:   "pipeline-key",
		MaxFailedLogins:  5,
		LockoutDur:       15 * time.Minute,
	}
	config.Set(cfg)
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return apiClient{t: t, router: NewRouter(db, cfg)}
}

func TestHealth(t *testing.T) {
	a := setup(t)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := setup(t)
	body := a.expect(http.StatusUnauthorized, "GET", "/budgets", "", "")
	assertField(t, object(body, "error"), "code", "UNAUTHORIZED")
}

func TestBudgetLifecycle(t *testing.T) {
	a := setup(t)
	managerToken, managerID := a.register("manager@example.com")
	ownerToken, ownerID := a.register("owner@example.com")
	outsiderToken, _ := a.register("outsider@example.com")

	a.expect(http.StatusOK, "PUT", "/users/"+ownerID+"/manager", ownerToken, `{"manager_id":"`+managerID+`"}`)

	body := a.expect(http.StatusCreated, "POST", "/budgets", ownerToken, `{
		"name":"January","period_type":"monthly","start_date":"2026-01-01","end_date":"2026-01-31",
		"items":[{"name":"Sales","type":"revenue","amount":10000},{"name":"Payroll","type":"expense","amount":5000}]
	}`)
	budgetID := object(body, "budget")["id"].(string)
	assertFloat(t, object(body, "totals"), "profit", 5000)

	// Actuals are refused before approval.
	a.expect(http.StatusConflict, "POST", "/budgets/"+budgetID+"/actuals", ownerToken, `{"type":"revenue","amount":1,"date":"2026-01-05"}`)

	body = a.expect(http.StatusOK, "POST", "/budgets/"+budgetID+"/submit", ownerToken, "")
	assertField(t, object(body, "budget"), "approver_id", managerID)

	a.expect(http.StatusForbidden, "POST", "/budgets/"+budgetID+"/approve", ownerToken, "")
	body = a.expect(http.StatusNotFound, "POST", "/budgets/"+budgetID+"/approve", outsiderToken, "")
	assertField(t, object(body, "error"), "code", "BUDGET_NOT_FOUND")

	body = a.expect(http.StatusOK, "GET", "/approvals/pending", managerToken, "")
	assertFloat(t, body, "total_items", 1)

	body = a.expect(http.StatusOK, "POST", "/budgets/"+budgetID+"/approve", managerToken, `{"note":"ok"}`)
	assertField(t, object(body, "budget"), "status", "approved")

	a.expect(http.StatusCreated, "POST", "/budgets/"+budgetID+"/actuals", ownerToken, `{"type":"revenue","amount":9000,"date":"2026-01-10"}`)
	a.expect(http.StatusCreated, "POST", "/budgets/"+budgetID+"/actuals", ownerToken, `{"type":"expense","amount":4000,"date":"2026-01-31"}`)

	body = a.expect(http.StatusOK, "GET", "/budgets/"+budgetID+"/variance", ownerToken, "")
	v := object(body, "variance")
	assertFloat(t, v, "revenue_variance", -1000)
	assertFloat(t, v, "revenue_variance_percent", -10)
	assertField(t, v, "revenue_favorable", false)
	assertFloat(t, v, "expense_variance", -1000)
	assertFloat(t, v, "expense_variance_percent", -20)
	assertField(t, v, "expense_favorable", true)
	assertFloat(t, v, "actual_profit", 5000)
	assertField(t, v, "profit_favorable", true)

	// The approver can read the budget; an outsider cannot.
	a.expect(http.StatusOK, "GET", "/budgets/"+budgetID, managerToken, "")
	a.expect(http.StatusNotFound, "GET", "/budgets/"+budgetID, outsiderToken, "")

	body = a.expect(http.StatusOK, "GET", "/notifications?severity=warning", managerToken, "")
	assertFloat(t, body, "total_items", 1)

	body = a.expect(http.StatusOK, "GET", "/notifications/unread-count", ownerToken, "")
	assertFloat(t, body, "unread", 1)

	body = a.expect(http.StatusOK, "GET", "/audit-logs?resource_type=budget", ownerToken, "")
	assertFloat(t, body, "total_items", 2)
}

func TestForecastRejectsUnboundedParams(t *testing.T) {
	a := setup(t)
	token, _ := a.register("planner@example.com")

	body := a.expect(http.StatusBadRequest, "POST", "/forecasts", token,
		`{"name":"Runaway","method":"linear_growth","periods":12,"method_params":{"growth_rate":1e300}}`)
	assertField(t, object(body, "error"), "code", "INVALID_INPUT")
}

func TestPipelineNotifications(t *testing.T) {
	a := setup(t)
	token, userID := a.register("ops@example.com")
	payload := `{"user_id":"` + userID + `","type":"sync_failed","title":"Bank sync failed"}`

	a.expect(http.StatusUnauthorized, "POST", "/pipeline/notifications", "", payload)
	a.expect(http.StatusCreated, "POST", "/pipeline/notifications", "", payload, "X-API-Key", "pipeline-key")

	body := a.expect(http.StatusOK, "GET", "/notifications?severity=error", token, "")
	assertFloat(t, body, "total_items", 1)
}
