package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"villacarmen/models"
	"villacarmen/services/session"

	"github.com/gin-gonic/gin"
)

type stubFlow struct {
	response models.FlowResponse
	routed   []models.WebhookMessage
}

func (s *stubFlow) Route(_ context.Context, _ models.ConversationSignal, msg models.WebhookMessage) models.FlowResponse {
	s.routed = append(s.routed, msg)
	return s.response
}

type stubClassifier struct {
	signal models.ConversationSignal
	err    error
}

func (s *stubClassifier) Classify(_ context.Context, _ []models.HistoryMessage) (models.ConversationSignal, error) {
	return s.signal, s.err
}

type stubGateway struct {
	texts []string
}

func (g *stubGateway) SendText(_ context.Context, _ string, text string) bool {
	g.texts = append(g.texts, text)
	return true
}

func (g *stubGateway) SendContactCard(_ context.Context, _, _, _, _ string) bool { return true }

func (g *stubGateway) SendMenu(_ context.Context, _, _ string, _ []string) bool { return true }

func (g *stubGateway) FindMessages(_ context.Context, _ string, _ int) ([]models.HistoryMessage, error) {
	return nil, nil
}

func postWebhook(t *testing.T, handler *WebhookHandler, payload models.WebhookPayload) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	router := gin.New()
	router.POST("/webhook", handler.HandleWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleWebhookRepliesThroughGateway(t *testing.T) {
	fl := &stubFlow{response: models.FlowResponse{Text: "¡Hola!"}}
	gw := &stubGateway{}
	handler := NewWebhookHandler(fl, &stubClassifier{signal: models.ConversationSignal{Intent: models.IntentNormal}}, gw, session.NewMemoryStores())

	w := postWebhook(t, handler, models.WebhookPayload{
		Event: "message",
		Message: models.WebhookMessage{
			ChatID: "34612345678@s.whatsapp.net",
			Text:   "hola",
			Type:   models.MessageTypeText,
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(fl.routed) != 1 {
		t.Fatalf("flow routed %d turns, want 1", len(fl.routed))
	}
	if len(gw.texts) != 1 || gw.texts[0] != "¡Hola!" {
		t.Errorf("gateway sends = %v", gw.texts)
	}
}

func TestHandleWebhookIgnoresOwnAndNonMessageEvents(t *testing.T) {
	tests := []struct {
		name    string
		payload models.WebhookPayload
	}{
		{"own message", models.WebhookPayload{Event: "message", Message: models.WebhookMessage{ChatID: "34612345678@s.whatsapp.net", FromMe: true}}},
		{"non-message event", models.WebhookPayload{Event: "presence", Message: models.WebhookMessage{ChatID: "34612345678@s.whatsapp.net"}}},
		{"empty chat id", models.WebhookPayload{Event: "message"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fl := &stubFlow{}
			handler := NewWebhookHandler(fl, &stubClassifier{}, &stubGateway{}, session.NewMemoryStores())

			w := postWebhook(t, handler, tt.payload)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if len(fl.routed) != 0 {
				t.Errorf("ignored delivery reached the flow: %v", fl.routed)
			}
		})
	}
}

func TestHandleWebhookClassifierFailureDegradesToErrorIntent(t *testing.T) {
	fl := &stubFlow{response: models.FlowResponse{Text: "Perdona, ha habido un problema."}}
	classifier := &stubClassifier{err: context.DeadlineExceeded}
	handler := NewWebhookHandler(fl, classifier, &stubGateway{}, session.NewMemoryStores())

	w := postWebhook(t, handler, models.WebhookPayload{
		Event:   "message",
		Message: models.WebhookMessage{ChatID: "34612345678@s.whatsapp.net", Text: "hola"},
	})

	// The instance still gets a 200; the turn is routed with a usable signal.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(fl.routed) != 1 {
		t.Errorf("flow routed %d turns, want 1", len(fl.routed))
	}
}

func TestHandleWebhookBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(&stubFlow{}, &stubClassifier{}, &stubGateway{}, session.NewMemoryStores())

	router := gin.New()
	router.POST("/webhook", handler.HandleWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleClearState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stores := session.NewMemoryStores()
	ctx := context.Background()
	stores.Drafts.Set(ctx, "612345678", models.BookingDraft{Date: "18/09/2026"})
	stores.Rice.Set(ctx, "612345678", models.PendingRiceSelection{Requested: "paella"})

	handler := NewWebhookHandler(&stubFlow{}, &stubClassifier{}, &stubGateway{}, stores)
	router := gin.New()
	router.POST("/clear", handler.HandleClearState)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/clear?phone=612345678", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if active, _ := stores.Drafts.HasActive(ctx, "612345678"); active {
		t.Error("draft survived clear-state")
	}
	if active, _ := stores.Rice.HasActive(ctx, "612345678"); active {
		t.Error("rice selection survived clear-state")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/clear", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing phone: status = %d, want 400", w.Code)
	}
}
