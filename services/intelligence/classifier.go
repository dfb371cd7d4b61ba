package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"villacarmen/models"
)

// GeminiClassifier extracts the per-turn ConversationSignal from the
// conversation history using a structured-output prompt.
type GeminiClassifier struct {
	client *GeminiClient
}

func NewGeminiClassifier(apiKey string) *GeminiClassifier {
	return &GeminiClassifier{client: NewGeminiClient(apiKey)}
}

func (c *GeminiClassifier) Classify(ctx context.Context, history []models.HistoryMessage) (models.ConversationSignal, error) {
	prompt := buildClassifyPrompt(history)

	raw, err := c.client.GenerateContent(ctx, prompt)
	if err != nil {
		return models.ConversationSignal{}, fmt.Errorf("classify: %w", err)
	}

	var signal models.ConversationSignal
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &signal); err != nil {
		return models.ConversationSignal{}, fmt.Errorf("classify: parse signal: %w", err)
	}
	if signal.Intent == "" {
		signal.Intent = models.IntentNormal
	}
	return signal, nil
}

func buildClassifyPrompt(history []models.HistoryMessage) string {
	var convo strings.Builder
	for _, msg := range history {
		role := "Cliente"
		if msg.FromMe {
			role = "Restaurante"
		}
		fmt.Fprintf(&convo, "%s: %s\n", role, msg.Text)
	}

	return fmt.Sprintf(`Eres el clasificador de intenciones de un restaurante.
Analiza la conversación y devuelve SOLO un JSON con esta forma:
{
  "intent": "booking|cancellation|modification|same_day|interactive|error|normal",
  "extracted": {
    "customerName": "", "date": "dd/MM/yyyy", "time": "HH:mm",
    "partySize": 0, "riceServings": 0, "notes": "",
    "rice": {"state": 0, "name": ""},
    "highChairs": {"state": 0, "value": 0},
    "strollers": {"state": 0, "value": 0}
  },
  "riceRequest": "",
  "invalidDate": false,
  "invalidTime": false,
  "missingFields": [],
  "stage": ""
}
Reglas:
- "booking" cuando el cliente quiere reservar mesa.
- "same_day" cuando pide reservar para hoy.
- "cancellation"/"modification" cuando quiere anular o cambiar una reserva.
- "interactive" para respuestas a botones o listas.
- "error" solo si el mensaje es ininteligible.
- missingFields lista entre "name", "date", "time", "partySize" lo que falta.
- rice.state: 0 sin hablar de arroz, 1 rechazado ("sin arroz"), 2 elegido (pon el nombre).
- riceRequest: el texto libre del arroz pedido si aún no está resuelto (ej. "arroz de pollo").
- highChairs/strollers state: 0 sin preguntar, 1 quiere pero sin cantidad, 2 cantidad conocida
  (value; "sin tronas" es state 2 con value 0).

Conversación:
%s`, convo.String())
}
