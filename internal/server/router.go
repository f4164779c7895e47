// Package server assembles the HTTP router from services and handlers.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"ledgerdesk/internal/config"
	_ "ledgerdesk/internal/docs" // Import swagger docs
	"ledgerdesk/internal/handlers"
	"ledgerdesk/internal/middleware"
	"ledgerdesk/internal/services"
)

// NewRouter wires every service and handler against db and returns the
// engine ready to serve.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(db)
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	approvalService := services.NewApprovalService(db, notificationService)
	actualService := services.NewActualService(db, notificationService)
	varianceService := services.NewVarianceService(db)
	scenarioService := services.NewScenarioService(db)
	forecastService := services.NewForecastService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	approvalHandler := handlers.NewApprovalHandler(approvalService, auditService)
	actualHandler := handlers.NewActualHandler(actualService, auditService)
	varianceHandler := handlers.NewVarianceHandler(varianceService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService, auditService)
	forecastHandler := handlers.NewForecastHandler(forecastService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	auditHandler := handlers.NewAuditHandler(auditService)
	pipelineHandler := handlers.NewPipelineHandler(notificationService, userService)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Batch pipeline routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/notifications", pipelineHandler.PushNotification)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	// User routes
	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/hierarchy", userHandler.GetHierarchy)
	users.PUT("/:id/manager", userHandler.SetManager)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/items", budgetHandler.AddItem)
	budgets.DELETE("/:id/items/:itemId", budgetHandler.RemoveItem)

	// Approval workflow
	budgets.POST("/:id/submit", approvalHandler.SubmitBudget)
	budgets.POST("/:id/approve", approvalHandler.ApproveBudget)
	budgets.POST("/:id/reject", approvalHandler.RejectBudget)
	budgets.POST("/:id/activate", approvalHandler.ActivateBudget)
	protected.GET("/approvals/pending", approvalHandler.GetPendingApprovals)

	// Actuals and variance
	budgets.POST("/:id/actuals", actualHandler.RecordActual)
	budgets.GET("/:id/actuals", actualHandler.GetActuals)
	budgets.GET("/:id/variance", varianceHandler.GetVariance)
	protected.GET("/variance/summary", varianceHandler.GetVarianceSummary)

	// Scenario routes
	budgets.POST("/:id/scenarios", scenarioHandler.CreateScenario)
	budgets.GET("/:id/scenarios", scenarioHandler.GetScenarios)
	budgets.GET("/:id/scenarios/compare", scenarioHandler.CompareScenarios)
	protected.DELETE("/scenarios/:id", scenarioHandler.DeleteScenario)

	// Forecast routes
	forecasts := protected.Group("/forecasts")
	forecasts.POST("", forecastHandler.CreateForecast)
	forecasts.GET("", forecastHandler.GetForecasts)
	forecasts.GET("/:id", forecastHandler.GetForecast)
	forecasts.DELETE("/:id", forecastHandler.DeleteForecast)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	protected.GET("/audit-logs", auditHandler.GetAuditLogs)

	return router
}
