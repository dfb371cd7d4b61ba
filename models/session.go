package models

// Stages of a modification session.
const (
	ModifyStageSelecting  = "selecting"  // waiting for the customer to pick a booking
	ModifyStageCollecting = "collecting" // waiting for the requested change
	ModifyStageConfirming = "confirming" // change described, waiting for yes/no
)

// ModificationSession tracks a multi-turn booking modification.
type ModificationSession struct {
	Stage          string          `json:"stage"`
	Candidates     []Booking       `json:"candidates,omitempty"` // bookings found for the phone
	Selected       *Booking        `json:"selected,omitempty"`
	PendingChanges *BookingChanges `json:"pendingChanges,omitempty"`
	ChangeSummary  string          `json:"changeSummary,omitempty"` // human-readable description of the change
}

// Stages of a cancellation session.
const (
	CancelStageSelecting  = "selecting"
	CancelStageConfirming = "confirming"
)

// CancellationSession tracks a multi-turn booking cancellation.
type CancellationSession struct {
	Stage      string    `json:"stage"`
	Candidates []Booking `json:"candidates,omitempty"`
	Selected   *Booking  `json:"selected,omitempty"`
}

// PendingRiceSelection is the short-lived disambiguation context created
// when a free-text rice request matches more than one catalog dish.
type PendingRiceSelection struct {
	Requested string   `json:"requested"` // original free-text rice request
	Options   []string `json:"options"`   // matching catalog names, presented numbered
}
