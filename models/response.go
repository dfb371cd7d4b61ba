package models

// FlowResponse is what the orchestrator hands back to the transport layer
// after routing a turn. Escalation side effects (contact card, intro
// message) happen during routing; the response only reports them.
type FlowResponse struct {
	Text      string   `json:"text,omitempty"`      // reply to send to the customer
	Escalated bool     `json:"escalated"`           // conversation handed to a human
	Committed *Booking `json:"committed,omitempty"` // set when a booking was created this turn
}
