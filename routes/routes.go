package routes

import (
	"villacarmen/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoint groups onto the router.
func RegisterRoutes(r *gin.Engine, webhook *handlers.WebhookHandler, admin *handlers.AdminHandler) {
	r.GET("/health", handlers.HandleHealth)
	RegisterWebhookRoutes(r, webhook)
	RegisterAdminRoutes(r, admin)
}
