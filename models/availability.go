package models

// Reasons an availability evaluation can reject.
const (
	RejectInvalid         = "invalid"
	RejectClosedDay       = "closed_day"
	RejectDailyFull       = "daily_full"
	RejectHourUnavailable = "hour_unavailable"
	RejectSameDay         = "same_day"
)

// AvailabilityDecision is the outcome of evaluating a reservation request
// against the capacity model.
type AvailabilityDecision struct {
	Accepted       bool     `json:"accepted"`
	Reason         string   `json:"reason,omitempty"`         // reject reason code when not accepted
	SuggestedDate  string   `json:"suggestedDate,omitempty"`  // "2006-01-02", next date that would work
	SuggestedTimes []string `json:"suggestedTimes,omitempty"` // same-day alternate slots, "15:04"
}

// DaySnapshot is the open/closed status of one calendar date.
type DaySnapshot struct {
	Date string `json:"date"` // "2006-01-02"
	Open bool   `json:"open"`
}

// DailyCapacitySnapshot is the seat budget picture for one date.
type DailyCapacitySnapshot struct {
	Date   string `json:"date"`
	Budget int    `json:"budget"` // total seat budget for the date
	Booked int    `json:"booked"` // sum of active bookings' party sizes
}

// Free returns the remaining seat budget for the date.
func (s DailyCapacitySnapshot) Free() int {
	return s.Budget - s.Booked
}

// Hour slot statuses derived from completion percentage.
const (
	SlotAvailable = "available" // < 70% booked
	SlotLimited   = "limited"   // 70–90% booked
	SlotFull      = "full"      // > 90% booked
	SlotClosed    = "closed"    // explicitly closed in the hour config
)

// HourSlot is one bookable time-of-day bucket.
type HourSlot struct {
	Time     string `json:"time"`     // "15:04"
	Capacity int    `json:"capacity"` // total seats allotted to the slot
	Booked   int    `json:"booked"`   // seats consumed by active bookings
	Closed   bool   `json:"closed"`
}

// Remaining returns the seats still free in the slot.
func (h HourSlot) Remaining() int {
	return h.Capacity - h.Booked
}

// CompletionPercent returns how full the slot is, 0–100.
func (h HourSlot) CompletionPercent() float64 {
	if h.Capacity <= 0 {
		return 100
	}
	return float64(h.Booked) / float64(h.Capacity) * 100
}

// Status derives the slot status from the completion thresholds.
func (h HourSlot) Status() string {
	if h.Closed {
		return SlotClosed
	}
	pct := h.CompletionPercent()
	switch {
	case pct > 90:
		return SlotFull
	case pct >= 70:
		return SlotLimited
	default:
		return SlotAvailable
	}
}

// DayOverride is the persisted per-date open/closed override.
type DayOverride struct {
	Date string `bson:"date" json:"date"` // "2006-01-02"
	Open bool   `bson:"open" json:"open"`
}

// DayBudget is the persisted per-date total seat budget.
type DayBudget struct {
	Date   string `bson:"date" json:"date"`
	Budget int    `bson:"budget" json:"budget"`
}

// HourConfig is one entry of the persisted per-date hour configuration.
type HourConfig struct {
	Time         string  `bson:"time" json:"time"`                  // "15:04"
	SharePercent float64 `bson:"share_percent" json:"sharePercent"` // share of the daily budget
	Closed       bool    `bson:"closed" json:"closed"`
}

// DayHourConfig is the persisted hour layout for one date.
type DayHourConfig struct {
	Date  string       `bson:"date" json:"date"`
	Hours []HourConfig `bson:"hours" json:"hours"`
}
