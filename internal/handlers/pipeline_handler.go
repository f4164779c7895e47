package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/services"
	"ledgerdesk/internal/uuid"
)

// PipelineHandler accepts machine-to-machine pushes authenticated by API key.
type PipelineHandler struct {
	notificationService services.NotificationServicer
	userService         services.UserServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(notificationService services.NotificationServicer, userService services.UserServicer) *PipelineHandler {
	return &PipelineHandler{notificationService: notificationService, userService: userService}
}

// PushNotificationRequest is a notification produced by an external system.
type PushNotificationRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Type      string `json:"type" binding:"required,max=50"`
	Title     string `json:"title" binding:"required,max=200"`
	Message   string `json:"message" binding:"max=2000"`
	ActionURL string `json:"action_url" binding:"max=500"`
}

// PushNotification handles a notification pushed by an external pipeline.
// @Summary     Push notification
// @Description Deliver a notification to a user on behalf of an external system
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    PipelineAPIKey
// @Param       request body PushNotificationRequest true "Notification"
// @Success     201 {object} models.Notification "Notification created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/notifications [post]
func (h *PipelineHandler) PushNotification(c *gin.Context) {
	var req PushNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if !uuid.IsValid(req.UserID) {
		respondWithError(c, invalidID("user_id"))
		return
	}

	if _, err := h.userService.GetUserByID(req.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	notification, err := h.notificationService.Notify(req.UserID, req.Type, req.Title, req.Message, req.ActionURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}
