package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/services"
)

// ScenarioHandler handles what-if scenarios.
type ScenarioHandler struct {
	scenarioService services.ScenarioServicer
	auditService    services.AuditServicer
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioService services.ScenarioServicer, auditService services.AuditServicer) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService, auditService: auditService}
}

// CreateScenarioRequest represents the request payload for a scenario.
// Profit is always derived.
type CreateScenarioRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=100"`
	ScenarioType  models.ScenarioType `json:"scenario_type" binding:"omitempty,scenario_type"`
	Description   string              `json:"description" binding:"max=500"`
	TotalRevenue  float64             `json:"total_revenue" binding:"gte=0"`
	TotalExpenses float64             `json:"total_expenses" binding:"gte=0"`
}

// CreateScenario handles creating a scenario for a budget.
// @Summary     Create scenario
// @Description Create a what-if variant of a budget
// @Tags        scenarios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Budget ID"
// @Param       request body CreateScenarioRequest true "Scenario details"
// @Success     201 {object} models.Scenario "Scenario created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/scenarios [post]
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
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

	var req CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	scenario, err := h.scenarioService.CreateScenario(userID, budgetID, models.Scenario{
		Name:          req.Name,
		ScenarioType:  req.ScenarioType,
		Description:   req.Description,
		TotalRevenue:  req.TotalRevenue,
		TotalExpenses: req.TotalExpenses,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "scenario", scenario.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "name": req.Name, "scenario_type": scenario.ScenarioType})

	c.JSON(http.StatusCreated, gin.H{"scenario": scenario})
}

// GetScenarios handles listing the scenarios of a budget.
// @Summary     List scenarios
// @Description List the scenarios of a budget in creation order
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string][]models.Scenario "Scenarios"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/scenarios [get]
func (h *ScenarioHandler) GetScenarios(c *gin.Context) {
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

	scenarios, err := h.scenarioService.GetScenarios(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// CompareScenarios handles comparing every scenario with the base budget.
// @Summary     Compare scenarios
// @Description Per-metric differences of each scenario against the base budget, with the best scenario by profit
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} analytics.Comparison "Comparison"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/scenarios/compare [get]
func (h *ScenarioHandler) CompareScenarios(c *gin.Context) {
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

	comparison, err := h.scenarioService.CompareScenarios(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// DeleteScenario handles deleting a scenario.
// @Summary     Delete scenario
// @Description Delete a scenario owned by the authenticated user
// @Tags        scenarios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {object} MessageResponse "Scenario deleted"
// @Failure     400 {object} ErrorResponse "Invalid scenario ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id} [delete]
func (h *ScenarioHandler) DeleteScenario(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scenarioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scenarioService.DeleteScenario(userID, scenarioID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "scenario", scenarioID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Scenario deleted successfully"})
}
