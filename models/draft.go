package models

// CountState tags the lifecycle of an extras count (high chairs, strollers).
// The flow never commits a draft while a count is Unasked or pending its
// quantity.
type CountState int

const (
	CountUnasked        CountState = iota // extra never brought up
	CountPendingNumber                    // customer said yes but gave no number
	CountKnown                            // quantity confirmed (possibly zero)
)

// CountField is an extras count with its state tag.
type CountField struct {
	State CountState `json:"state"`
	Value int        `json:"value"` // meaningful only when State == CountKnown
}

// Known returns a CountField holding a confirmed quantity.
func Known(n int) CountField {
	return CountField{State: CountKnown, Value: n}
}

// RiceState tags the rice decision for a draft.
type RiceState int

const (
	RiceUndecided RiceState = iota // not discussed yet
	RiceNone                       // customer explicitly declined rice
	RiceNamed                      // a catalog dish was chosen
)

// RiceChoice is the tri-state rice decision plus the chosen dish.
type RiceChoice struct {
	State RiceState `json:"state"`
	Name  string    `json:"name,omitempty"` // catalog name when State == RiceNamed
}

// BookingDraft accumulates reservation data across conversation turns.
// Created on the first booking-intent turn, mutated on every subsequent
// turn, destroyed on commit or hard availability rejection.
type BookingDraft struct {
	CustomerName string     `json:"customerName,omitempty"`
	ContactPhone string     `json:"contactPhone,omitempty"` // normalized, with country prefix
	Date         string     `json:"date,omitempty"`         // "02/01/2006" as the customer writes it
	Time         string     `json:"time,omitempty"`         // "15:04"
	PartySize    int        `json:"partySize,omitempty"`
	Rice         RiceChoice `json:"rice"`
	RiceServings int        `json:"riceServings,omitempty"`
	HighChairs   CountField `json:"highChairs"`
	Strollers    CountField `json:"strollers"`
	Notes        string     `json:"notes,omitempty"`
}

// Merge overlays the non-empty fields extracted from the current turn onto
// the stored draft. Tagged fields only move forward: a later turn can refine
// a pending count into a known one but never reset a known value to unasked.
func (d *BookingDraft) Merge(in BookingDraft) {
	if in.CustomerName != "" {
		d.CustomerName = in.CustomerName
	}
	if in.ContactPhone != "" {
		d.ContactPhone = in.ContactPhone
	}
	if in.Date != "" {
		d.Date = in.Date
	}
	if in.Time != "" {
		d.Time = in.Time
	}
	if in.PartySize > 0 {
		d.PartySize = in.PartySize
	}
	if in.Rice.State != RiceUndecided {
		d.Rice = in.Rice
	}
	if in.RiceServings > 0 {
		d.RiceServings = in.RiceServings
	}
	if in.HighChairs.State > d.HighChairs.State || in.HighChairs.State == CountKnown {
		d.HighChairs = in.HighChairs
	}
	if in.Strollers.State > d.Strollers.State || in.Strollers.State == CountKnown {
		d.Strollers = in.Strollers
	}
	if in.Notes != "" {
		d.Notes = in.Notes
	}
}
