package handlers

import (
	"net/http"

	"villacarmen/config"
	"villacarmen/models"
	"villacarmen/services/flow"
	ai "villacarmen/services/intelligence"
	"villacarmen/services/messaging"
	"villacarmen/services/session"
	"villacarmen/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// historyWindow is how many messages the classifier sees per turn.
const historyWindow = 20

// WebhookHandler receives UAZAPI deliveries and runs them through the flow.
type WebhookHandler struct {
	Flow       flow.Flow
	Classifier ai.Classifier
	Gateway    messaging.Gateway
	Stores     *session.Stores
}

func NewWebhookHandler(f flow.Flow, classifier ai.Classifier, gateway messaging.Gateway, stores *session.Stores) *WebhookHandler {
	return &WebhookHandler{Flow: f, Classifier: classifier, Gateway: gateway, Stores: stores}
}

// HandleWebhook processes one inbound WhatsApp message. It always answers
// 200 to the instance; conversation-level failures become a generic reply,
// never a transport error.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	logger := utils.GetLogger()

	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	msg := payload.Message
	if payload.Event != "message" || msg.FromMe || msg.ChatID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	phone := session.NormalizePhone(msg.ChatID)

	history, err := h.Gateway.FindMessages(ctx, phone, historyWindow)
	if err != nil {
		// Classify from the current message alone.
		logger.Warn("history fetch failed, classifying single turn", zap.String("phone", phone), zap.Error(err))
		history = nil
	}
	history = append(history, models.HistoryMessage{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		Text:      msg.Body(),
		Timestamp: msg.Timestamp,
		Type:      msg.Type,
	})

	signal, err := h.Classifier.Classify(ctx, history)
	if err != nil {
		logger.Error("classification failed", zap.String("phone", phone), zap.Error(err))
		signal = models.ConversationSignal{Intent: models.IntentError}
	}

	response := h.Flow.Route(ctx, signal, msg)
	if response.Text != "" {
		if !h.Gateway.SendText(ctx, phone, response.Text) {
			logger.Warn("reply send failed", zap.String("phone", phone))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "processed",
		"escalated": response.Escalated,
	})
}

// HandleClearState wipes all conversation state for a phone. Development
// only; the test harness calls it between scenarios.
func (h *WebhookHandler) HandleClearState(c *gin.Context) {
	if config.IsProduction() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	phone := c.Query("phone")
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing phone", "query parameter 'phone' is required")
		return
	}

	if err := h.Stores.ClearAll(c.Request.Context(), phone); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to clear state", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// HandleHealth is the liveness endpoint.
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
