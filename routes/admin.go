package routes

import (
	"villacarmen/handlers"
	"villacarmen/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the capacity management endpoints.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.AdminHandler) {
	r.POST("/api/admin/login", h.HandleLogin)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth())
	{
		admin.PUT("/days/:date", h.HandleSetDayOverride)
		admin.PUT("/days/:date/budget", h.HandleSetDayBudget)
		admin.PUT("/days/:date/hours", h.HandleSetHourConfig)
		admin.GET("/days/:date/availability", h.HandleGetAvailability)
	}
}
