package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"villacarmen/models"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// UazapiGateway talks to a UAZAPI WhatsApp instance over HTTP.
type UazapiGateway struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewUazapiGateway returns a gateway for the given instance.
func NewUazapiGateway(baseURL, token string) *UazapiGateway {
	return &UazapiGateway{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SendText posts a plain text message.
func (g *UazapiGateway) SendText(ctx context.Context, phone, text string) bool {
	payload := map[string]any{
		"number": phone,
		"text":   text,
	}
	return g.post(ctx, "/send/text", payload) == nil
}

// SendContactCard shares a contact via a vcard text payload.
func (g *UazapiGateway) SendContactCard(ctx context.Context, phone, name, contactPhone, org string) bool {
	payload := map[string]any{
		"number": phone,
		"type":   "contact",
		"contact": map[string]string{
			"fullName":     name,
			"phoneNumber":  contactPhone,
			"organization": org,
		},
	}
	return g.post(ctx, "/send/menu", payload) == nil
}

// SendMenu sends a button menu with the given choices.
func (g *UazapiGateway) SendMenu(ctx context.Context, phone, text string, choices []string) bool {
	payload := map[string]any{
		"number":  phone,
		"type":    "button",
		"text":    text,
		"choices": choices,
	}
	return g.post(ctx, "/send/menu", payload) == nil
}

// FindMessages fetches the recent conversation history for a phone.
func (g *UazapiGateway) FindMessages(ctx context.Context, phone string, limit int) ([]models.HistoryMessage, error) {
	payload := map[string]any{
		"chatid": phone + "@s.whatsapp.net",
		"limit":  limit,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/message/find", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", g.Token)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uazapi message/find: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("uazapi message/find: status %d", resp.StatusCode)
	}

	var result struct {
		Messages []models.HistoryMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("uazapi message/find: decode: %w", err)
	}
	return result.Messages, nil
}

func (g *UazapiGateway) post(ctx context.Context, path string, payload any) error {
	logger := utils.GetLogger()

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("uazapi marshal failed", zap.String("path", path), zap.Error(err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		logger.Error("uazapi request build failed", zap.String("path", path), zap.Error(err))
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", g.Token)

	resp, err := g.Client.Do(req)
	if err != nil {
		logger.Error("uazapi send failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.Error("uazapi send rejected", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("uazapi %s: status %d", path, resp.StatusCode)
	}
	return nil
}
