package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/services"
)

const testForecastID = "0190c3a0-0000-7000-8000-0000000000f1"

type mockForecastService struct {
	createFn func(userID string, input services.ForecastInput) (*services.ForecastDetail, error)
	getFn    func(userID, forecastID string) (*services.ForecastDetail, error)
	deleteFn func(userID, forecastID string) error
}

func (m *mockForecastService) CreateForecast(userID string, input services.ForecastInput) (*services.ForecastDetail, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &services.ForecastDetail{Forecast: models.Forecast{Base: models.Base{ID: testForecastID}, Name: input.Name}}, nil
}

func (m *mockForecastService) GetForecasts(_ string, page pagination.PageRequest) (*pagination.PageResponse[models.Forecast], error) {
	resp := pagination.Slice([]models.Forecast{}, page)
	return &resp, nil
}

func (m *mockForecastService) GetForecast(userID, forecastID string) (*services.ForecastDetail, error) {
	if m.getFn != nil {
		return m.getFn(userID, forecastID)
	}
	return &services.ForecastDetail{}, nil
}

func (m *mockForecastService) DeleteForecast(userID, forecastID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, forecastID)
	}
	return nil
}

var _ services.ForecastServicer = (*mockForecastService)(nil)

func setupForecastRouter(handler *ForecastHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/forecasts", handler.CreateForecast)
	auth.GET("/forecasts", handler.GetForecasts)
	auth.GET("/forecasts/:id", handler.GetForecast)
	auth.DELETE("/forecasts/:id", handler.DeleteForecast)
	return r
}

func TestForecastHandler_CreateForecast(t *testing.T) {
	t.Run("passes parameters through", func(t *testing.T) {
		var got services.ForecastInput
		svc := &mockForecastService{
			createFn: func(_ string, input services.ForecastInput) (*services.ForecastDetail, error) {
				got = input
				return &services.ForecastDetail{Forecast: models.Forecast{Base: models.Base{ID: testForecastID}}}, nil
			},
		}
		r := setupForecastRouter(NewForecastHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/forecasts", `{
			"name":"H1 revenue","budget_id":"`+testBudgetID+`","forecast_type":"revenue",
			"period_type":"monthly","method":"linear_growth","method_params":{"growth_rate":10},"periods":3
		}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Method != analytics.MethodLinearGrowth || got.Periods != 3 || got.MethodParams["growth_rate"] != 10 {
			t.Errorf("unexpected input %+v", got)
		}
		if got.BudgetID == nil || *got.BudgetID != testBudgetID {
			t.Errorf("expected budget %s, got %v", testBudgetID, got.BudgetID)
		}
	})

	t.Run("maps unknown method", func(t *testing.T) {
		svc := &mockForecastService{
			createFn: func(_ string, _ services.ForecastInput) (*services.ForecastDetail, error) {
				return nil, apperrors.ErrUnknownForecastMethod
			},
		}
		r := setupForecastRouter(NewForecastHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/forecasts", `{"name":"X","method":"arima"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNKNOWN_FORECAST_METHOD")
	})

	t.Run("rejects too many periods", func(t *testing.T) {
		r := setupForecastRouter(NewForecastHandler(&mockForecastService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/forecasts", `{"name":"X","method":"trend","periods":61}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects malformed budget id", func(t *testing.T) {
		r := setupForecastRouter(NewForecastHandler(&mockForecastService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/forecasts", `{"name":"X","method":"trend","budget_id":"nope"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestForecastHandler_GetAndDelete(t *testing.T) {
	t.Run("returns forecast with summary", func(t *testing.T) {
		svc := &mockForecastService{
			getFn: func(_, id string) (*services.ForecastDetail, error) {
				points := []analytics.ForecastPoint{{Period: 1, ForecastedValue: 100}, {Period: 2, ForecastedValue: 200}}
				return &services.ForecastDetail{
					Forecast: models.Forecast{Base: models.Base{ID: id}, DataPoints: points},
					Summary:  analytics.SummarizeForecast(points),
				}, nil
			},
		}
		r := setupForecastRouter(NewForecastHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/forecasts/"+testForecastID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		f := parseJSON(t, rec)["forecast"].(map[string]interface{})
		if f["summary"] == nil {
			t.Error("expected summary")
		}
	})

	t.Run("lists forecasts", func(t *testing.T) {
		r := setupForecastRouter(NewForecastHandler(&mockForecastService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/forecasts?page=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["page"] != 2.0 {
			t.Error("expected page 2")
		}
	})

	t.Run("returns 404 on delete of unknown forecast", func(t *testing.T) {
		svc := &mockForecastService{
			deleteFn: func(_, _ string) error { return apperrors.ErrForecastNotFound },
		}
		r := setupForecastRouter(NewForecastHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/forecasts/"+testForecastID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
