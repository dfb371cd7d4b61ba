package messaging

import (
	"context"

	"villacarmen/models"
)

// Gateway is the WhatsApp transport the flow speaks through. Sends report
// success as a bool: failures are logged and degrade gracefully, they are
// never surfaced as errors to the conversation.
type Gateway interface {
	SendText(ctx context.Context, phone, text string) bool
	// SendContactCard shares the restaurant's human contact, used by
	// escalation short-circuits.
	SendContactCard(ctx context.Context, phone, name, contactPhone, org string) bool
	// SendMenu sends a button or list menu with the given choices.
	SendMenu(ctx context.Context, phone, text string, choices []string) bool
	// FindMessages returns the recent conversation history for a phone,
	// oldest first, for the classifier.
	FindMessages(ctx context.Context, phone string, limit int) ([]models.HistoryMessage, error)
}
