package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/services"
)

// ActualHandler handles recording and listing actuals.
type ActualHandler struct {
	actualService services.ActualServicer
	auditService  services.AuditServicer
}

// NewActualHandler creates a new ActualHandler.
func NewActualHandler(actualService services.ActualServicer, auditService services.AuditServicer) *ActualHandler {
	return &ActualHandler{actualService: actualService, auditService: auditService}
}

// RecordActualRequest represents a realized revenue or expense.
type RecordActualRequest struct {
	Type        models.ItemType `json:"type" binding:"required,item_type"`
	Category    string          `json:"category" binding:"max=100"`
	Amount      float64         `json:"amount" binding:"gte=0"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"max=500"`
}

// RecordActual handles recording an actual against a committed budget.
// @Summary     Record actual
// @Description Record realized revenue or expense against an approved or active budget
// @Tags        actuals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body RecordActualRequest true "Actual details"
// @Success     201 {object} models.ActualEntry "Recorded actual"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not approved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/actuals [post]
func (h *ActualHandler) RecordActual(c *gin.Context) {
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

	var req RecordActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.actualService.RecordActual(userID, budgetID, models.ActualEntry{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "actual", entry.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "type": req.Type, "amount": req.Amount, "date": req.Date})

	c.JSON(http.StatusCreated, gin.H{"actual": entry})
}

// GetActuals handles listing the actuals of a budget.
// @Summary     List actuals
// @Description List actuals of a budget, optionally within an inclusive date window
// @Tags        actuals
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Budget ID"
// @Param       start query string false "First day (YYYY-MM-DD)"
// @Param       end   query string false "Last day (YYYY-MM-DD)"
// @Success     200 {object} map[string][]models.ActualEntry "Actuals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/actuals [get]
func (h *ActualHandler) GetActuals(c *gin.Context) {
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

	entries, err := h.actualService.ListActuals(userID, budgetID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actuals": entries})
}

// parseWindow reads the optional start and end query dates.
func parseWindow(c *gin.Context) (start, end *time.Time, err error) {
	if start, err = parseDateQuery(c, "start"); err != nil {
		return nil, nil, err
	}
	if end, err = parseDateQuery(c, "end"); err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, apperrors.ErrInvalidDateRange
	}
	return start, end, nil
}
