package routes

import (
	"villacarmen/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the UAZAPI-facing endpoints.
func RegisterWebhookRoutes(r *gin.Engine, h *handlers.WebhookHandler) {
	webhook := r.Group("/api/webhook")
	{
		webhook.POST("/whatsapp-webhook", h.HandleWebhook)
		webhook.GET("/health", handlers.HandleHealth)
		webhook.POST("/test/clear-state", h.HandleClearState) // development only
	}
}
