package ai

import (
	"context"

	"villacarmen/models"
)

// Classifier turns the raw conversation history into the structured turn
// signal the flow routes on. The flow depends only on this interface; the
// Gemini implementation below is the production classifier.
type Classifier interface {
	Classify(ctx context.Context, history []models.HistoryMessage) (models.ConversationSignal, error)
}
