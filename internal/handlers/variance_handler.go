package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/services"
)

// VarianceHandler serves budget-versus-actual reports.
type VarianceHandler struct {
	varianceService services.VarianceServicer
}

// NewVarianceHandler creates a new VarianceHandler.
func NewVarianceHandler(varianceService services.VarianceServicer) *VarianceHandler {
	return &VarianceHandler{varianceService: varianceService}
}

// GetVariance handles the variance report of one budget.
// @Summary     Budget variance
// @Description Compare planned revenue, expenses and profit with actuals. The window defaults to the budget period.
// @Tags        variance
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Budget ID"
// @Param       start query string false "First day (YYYY-MM-DD)"
// @Param       end   query string false "Last day (YYYY-MM-DD)"
// @Success     200 {object} analytics.VarianceResult "Variance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/variance [get]
func (h *VarianceHandler) GetVariance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, end, err := parseWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.varianceService.CalculateVariance(userID, budgetID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"variance": result})
}

// GetVarianceSummary handles the variance of every approved or active budget.
// @Summary     Variance summary
// @Description Variance of each approved or active budget of the authenticated user plus the combined total
// @Tags        variance
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.VarianceSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /variance/summary [get]
func (h *VarianceHandler) GetVarianceSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.varianceService.GetVarianceSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
