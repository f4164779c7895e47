package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/services"
	"ledgerdesk/internal/uuid"
)

// ForecastHandler handles forecast generation and retrieval.
type ForecastHandler struct {
	forecastService services.ForecastServicer
	auditService    services.AuditServicer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer, auditService services.AuditServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService, auditService: auditService}
}

// CreateForecastRequest describes a forecast to generate. The method is
// checked by the forecasting engine so unknown methods get their own error code.
type CreateForecastRequest struct {
	Name         string              `json:"name" binding:"required,min=1,max=100"`
	BudgetID     *string             `json:"budget_id"`
	ForecastType models.ForecastType `json:"forecast_type" binding:"omitempty,forecast_type"`
	PeriodType   models.PeriodType   `json:"period_type" binding:"omitempty,period_type"`
	Method       analytics.Method    `json:"method" binding:"required"`
	MethodParams map[string]float64  `json:"method_params"`
	Periods      int                 `json:"periods" binding:"omitempty,min=1,max=60"`
}

// CreateForecast handles generating and storing a forecast.
// @Summary     Create forecast
// @Description Project actuals forward with moving_average, linear_growth or trend
// @Tags        forecasts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateForecastRequest true "Forecast parameters"
// @Success     201 {object} services.ForecastDetail "Forecast created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown method"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts [post]
func (h *ForecastHandler) CreateForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if req.BudgetID != nil && !uuid.IsValid(*req.BudgetID) {
		respondWithError(c, invalidID("budget_id"))
		return
	}

	forecast, err := h.forecastService.CreateForecast(userID, services.ForecastInput{
		Name:         req.Name,
		BudgetID:     req.BudgetID,
		ForecastType: req.ForecastType,
		PeriodType:   req.PeriodType,
		Method:       req.Method,
		MethodParams: req.MethodParams,
		Periods:      req.Periods,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "forecast", forecast.ID, c.ClientIP(),
		map[string]interface{}{"method": req.Method, "periods": len(forecast.DataPoints), "budget_id": req.BudgetID})

	c.JSON(http.StatusCreated, gin.H{"forecast": forecast})
}

// GetForecasts handles listing the user's forecasts.
// @Summary     List forecasts
// @Description Paginated forecasts of the authenticated user, newest first
// @Tags        forecasts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Forecast] "Forecasts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts [get]
func (h *ForecastHandler) GetForecasts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.forecastService.GetForecasts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetForecast handles retrieving one forecast with its summary.
// @Summary     Get forecast
// @Description Get a forecast with its data points and summary
// @Tags        forecasts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Forecast ID"
// @Success     200 {object} services.ForecastDetail "Forecast"
// @Failure     400 {object} ErrorResponse "Invalid forecast ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Forecast not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts/{id} [get]
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	forecastID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	forecast, err := h.forecastService.GetForecast(userID, forecastID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// DeleteForecast handles deleting a forecast.
// @Summary     Delete forecast
// @Tags        forecasts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Forecast ID"
// @Success     200 {object} MessageResponse "Forecast deleted"
// @Failure     400 {object} ErrorResponse "Invalid forecast ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Forecast not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /forecasts/{id} [delete]
func (h *ForecastHandler) DeleteForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	forecastID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.forecastService.DeleteForecast(userID, forecastID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "forecast", forecastID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Forecast deleted successfully"})
}
