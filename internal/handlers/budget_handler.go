package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/services"
	"ledgerdesk/internal/validator"
)

// BudgetHandler handles budget and budget item requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// BudgetItemRequest is one planned revenue or expense line.
type BudgetItemRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=100"`
	Type     models.ItemType `json:"type" binding:"required,item_type"`
	Category string          `json:"category" binding:"max=100"`
	Amount   float64         `json:"amount" binding:"gte=0"`
}

func (r BudgetItemRequest) model() models.BudgetItem {
	return models.BudgetItem{Name: r.Name, Type: r.Type, Category: r.Category, Amount: r.Amount}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name       string              `json:"name" binding:"required,min=1,max=100"`
	PeriodType models.PeriodType   `json:"period_type" binding:"required,period_type"`
	StartDate  string              `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string              `json:"end_date" binding:"required,datetime=2006-01-02"`
	Items      []BudgetItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name       *string            `json:"name" binding:"omitempty,min=1,max=100"`
	PeriodType *models.PeriodType `json:"period_type" binding:"omitempty,period_type"`
	StartDate  *string            `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string            `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// BudgetResponse is a budget with its planned totals.
type BudgetResponse struct {
	Budget *models.Budget   `json:"budget"`
	Totals analytics.Totals `json:"totals"`
}

func budgetResponse(budget *models.Budget) BudgetResponse {
	return BudgetResponse{Budget: budget, Totals: analytics.TotalsFrom(budget.Figures())}
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a draft budget with optional initial items
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} BudgetResponse "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]models.BudgetItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.model())
	}

	budget, err := h.budgetService.CreateBudget(userID, req.Name, req.PeriodType, start, end, items)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "period_type": req.PeriodType, "items": len(items)})

	c.JSON(http.StatusCreated, budgetResponse(budget))
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated user
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status (draft/submitted/approved/active/rejected)"
// @Param       period_type query string false "Filter by period (monthly/quarterly/yearly)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
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

	var filter services.BudgetFilter
	if v := c.Query("status"); v != "" && v != "all" {
		if !validator.Valid("budget_status", v) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be one of draft, submitted, approved, active, rejected"))
			return
		}
		s := models.BudgetStatus(v)
		filter.Status = &s
	}
	if v := c.Query("period_type"); v != "" && v != "all" {
		if !validator.Valid("period_type", v) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period_type must be monthly, quarterly or yearly"))
			return
		}
		p := models.PeriodType(v)
		filter.PeriodType = &p
	}

	result, err := h.budgetService.GetUserBudgets(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a budget with its items and planned totals. Visible to the owner and the assigned approver.
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} BudgetResponse "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
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

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgetResponse(budget))
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update the name, period or dates of a draft or rejected budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} BudgetResponse "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
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

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.BudgetUpdate{Name: req.Name, PeriodType: req.PeriodType}
	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.EndDate = &end
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "period_type": req.PeriodType, "start_date": req.StartDate, "end_date": req.EndDate})

	c.JSON(http.StatusOK, budgetResponse(budget))
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget that has not been approved (soft delete)
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget already approved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
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

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}

// AddItem handles adding a line to a budget.
// @Summary     Add budget item
// @Description Add a revenue or expense line to a draft or rejected budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Budget ID"
// @Param       request body BudgetItemRequest true "Item details"
// @Success     201 {object} models.BudgetItem "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/items [post]
func (h *BudgetHandler) AddItem(c *gin.Context) {
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

	var req BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.budgetService.AddItem(userID, budgetID, req.model())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "budget_item", item.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "type": req.Type, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// RemoveItem handles deleting a line from a budget.
// @Summary     Remove budget item
// @Description Remove a line from a draft or rejected budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Budget ID"
// @Param       itemId path string true "Item ID"
// @Success     200 {object} MessageResponse "Item removed"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or item not found"
// @Failure     409 {object} ErrorResponse "Budget not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/items/{itemId} [delete]
func (h *BudgetHandler) RemoveItem(c *gin.Context) {
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
	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.RemoveItem(userID, budgetID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "budget_item", itemID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID})

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget item removed successfully"})
}
