package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/services"
	"ledgerdesk/internal/uuid"
)

// UserHandler serves the team directory and reporting lines.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// SetManagerRequest assigns a manager. A null or empty manager_id clears it.
type SetManagerRequest struct {
	ManagerID *string `json:"manager_id"`
}

// ListUsers handles listing active users.
// @Summary     List users
// @Description Get a paginated list of active users ordered by email
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[UserResponse] "Paginated users"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	users := make([]UserResponse, 0, len(result.Data))
	for i := range result.Data {
		users = append(users, toUserResponse(&result.Data[i]))
	}
	c.JSON(http.StatusOK, pagination.NewPageResponse(users, result.Page, result.PageSize, result.TotalItems))
}

// GetHierarchy returns the reporting tree.
// @Summary     Get reporting hierarchy
// @Description Get all active users arranged under their managers
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Hierarchy roots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/hierarchy [get]
func (h *UserHandler) GetHierarchy(c *gin.Context) {
	roots, err := h.userService.GetHierarchy()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hierarchy": roots})
}

// SetManager assigns or clears a user's manager.
// @Summary     Set a user's manager
// @Description Assign a manager to a user, or clear it with a null manager_id. Reporting cycles are rejected.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body SetManagerRequest true "Manager"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input or cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{id}/manager [put]
func (h *UserHandler) SetManager(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if req.ManagerID != nil && *req.ManagerID == "" {
		req.ManagerID = nil
	}
	if req.ManagerID != nil && !uuid.IsValid(*req.ManagerID) {
		respondWithError(c, invalidID("manager_id"))
		return
	}

	user, err := h.userService.SetManager(userID, req.ManagerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID, services.AuditUpdate, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"manager_id": req.ManagerID})

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
