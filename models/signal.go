package models

// Conversation intents produced by the classifier.
const (
	IntentBooking      = "booking"
	IntentCancellation = "cancellation"
	IntentModification = "modification"
	IntentSameDay      = "same_day"
	IntentInteractive  = "interactive"
	IntentError        = "error"
	IntentNormal       = "normal"
)

// ConversationSignal is the per-turn classified view of the conversation.
// Supplied by the classifier collaborator; read-only to the flow.
type ConversationSignal struct {
	Intent        string       `json:"intent"`
	Extracted     BookingDraft `json:"extracted"`               // fields pulled out of this turn
	RiceRequest   string       `json:"riceRequest,omitempty"`   // free-text rice wish awaiting catalog resolution
	InvalidDate   bool         `json:"invalidDate,omitempty"`   // set by a prior date rejection
	InvalidTime   bool         `json:"invalidTime,omitempty"`   // set by a prior time rejection
	MissingFields []string     `json:"missingFields,omitempty"` // e.g. "date", "time", "partySize", "name"
	Stage         string       `json:"stage,omitempty"`         // classifier's view of flow progress
}
