package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/services"
	"ledgerdesk/internal/uuid"
)

// ApprovalHandler handles the budget approval workflow.
type ApprovalHandler struct {
	approvalService services.ApprovalServicer
	auditService    services.AuditServicer
}

// NewApprovalHandler creates a new ApprovalHandler.
func NewApprovalHandler(approvalService services.ApprovalServicer, auditService services.AuditServicer) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, auditService: auditService}
}

// SubmitBudgetRequest optionally names the approver. Without one the owner's
// manager is asked.
type SubmitBudgetRequest struct {
	ApproverID *string `json:"approver_id"`
}

// DecisionRequest carries the approver's note.
type DecisionRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

// SubmitBudget handles submitting a budget for approval.
// @Summary     Submit budget for approval
// @Description Move a draft or rejected budget to submitted and notify the approver
// @Tags        approvals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true  "Budget ID"
// @Param       request body SubmitBudgetRequest false "Approver"
// @Success     200 {object} BudgetResponse "Submitted budget"
// @Failure     400 {object} ErrorResponse "Invalid input or no approver"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Self approval"
// @Failure     404 {object} ErrorResponse "Budget or approver not found"
// @Failure     409 {object} ErrorResponse "Budget not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/submit [post]
func (h *ApprovalHandler) SubmitBudget(c *gin.Context) {
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

	var req SubmitBudgetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}
	if req.ApproverID != nil {
		if *req.ApproverID == "" {
			req.ApproverID = nil
		} else if !uuid.IsValid(*req.ApproverID) {
			respondWithError(c, invalidID("approver_id"))
			return
		}
	}

	budget, err := h.approvalService.Submit(userID, budgetID, req.ApproverID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditSubmit, "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"approver_id": budget.ApproverID})

	c.JSON(http.StatusOK, budgetResponse(budget))
}

// ApproveBudget handles approving a submitted budget.
// @Summary     Approve budget
// @Description Approve a submitted budget. Only the assigned approver may decide.
// @Tags        approvals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true  "Budget ID"
// @Param       request body DecisionRequest false "Approval note"
// @Success     200 {object} BudgetResponse "Approved budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Self approval"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not submitted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/approve [post]
func (h *ApprovalHandler) ApproveBudget(c *gin.Context) {
	h.decide(c, true)
}

// RejectBudget handles rejecting a submitted budget.
// @Summary     Reject budget
// @Description Reject a submitted budget so the owner can revise it
// @Tags        approvals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true  "Budget ID"
// @Param       request body DecisionRequest false "Rejection note"
// @Success     200 {object} BudgetResponse "Rejected budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Self approval"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not submitted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/reject [post]
func (h *ApprovalHandler) RejectBudget(c *gin.Context) {
	h.decide(c, false)
}

func (h *ApprovalHandler) decide(c *gin.Context, approve bool) {
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

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}

	decide, action := h.approvalService.Reject, services.AuditReject
	if approve {
		decide, action = h.approvalService.Approve, services.AuditApprove
	}

	budget, err := decide(userID, budgetID, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "budget", budgetID, c.ClientIP(),
		map[string]interface{}{"note": req.Note})

	c.JSON(http.StatusOK, budgetResponse(budget))
}

// ActivateBudget handles activating an approved budget.
// @Summary     Activate budget
// @Description Move an approved budget to active. Only the owner may activate.
// @Tags        approvals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} BudgetResponse "Active budget"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget not approved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/activate [post]
func (h *ApprovalHandler) ActivateBudget(c *gin.Context) {
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

	budget, err := h.approvalService.Activate(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActivate, "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, budgetResponse(budget))
}

// GetPendingApprovals lists budgets waiting on the caller's decision.
// @Summary     Pending approvals
// @Description Get submitted budgets assigned to the authenticated user, oldest submission first
// @Tags        approvals
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Pending budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /approvals/pending [get]
func (h *ApprovalHandler) GetPendingApprovals(c *gin.Context) {
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

	result, err := h.approvalService.ListPending(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
