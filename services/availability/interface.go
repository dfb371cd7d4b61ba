package availability

import (
	"context"
	"time"

	capacityRepo "villacarmen/database/repository/capacity"
	"villacarmen/models"
)

// Default capacity model, applied wherever no per-date record is persisted.
const (
	// DefaultDailyBudget is the seat budget for a date without a persisted one.
	DefaultDailyBudget = 45

	// Forward-search bounds for suggestions. Explicitly bounded so slow
	// storage or cancellation cannot cause unbounded work.
	openDaySearchLimit  = 60
	capacitySearchLimit = 90

	// How many same-day alternate slots a rejection carries.
	maxAlternateSlots = 3

	// DateLayout is the wire format for dates throughout the capacity model.
	DateLayout = "2006-01-02"
)

// DefaultHours is the generated seating layout for dates without a
// persisted hour configuration: the lunch service split into equal shares.
var DefaultHours = []string{"13:30", "14:00", "14:30", "15:00"}

// defaultClosedWeekdays are the fixed weekly closing days, overridable by a
// persisted per-date record.
var defaultClosedWeekdays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
}

// BookingCounts is the slice of the booking repository the engine reads:
// fresh seat aggregates per date and per slot.
type BookingCounts interface {
	BookedSeats(ctx context.Context, date string) (int, error)
	BookedSeatsBySlot(ctx context.Context, date string) (map[string]int, error)
}

// Engine answers "can I book N people at time T on date D". It is an
// advisory check: it holds no cache and takes no lock, so the caller must
// serialize evaluate+commit per date.
type Engine interface {
	// Evaluate decides a reservation request. timeStr may be empty when the
	// customer has not chosen an hour yet.
	Evaluate(ctx context.Context, date string, partySize int, timeStr string) (models.AvailabilityDecision, error)
	// DaySnapshot reports whether a date is open.
	DaySnapshot(ctx context.Context, date string) (models.DaySnapshot, error)
	// DailyCapacity reports the seat budget picture for a date.
	DailyCapacity(ctx context.Context, date string) (models.DailyCapacitySnapshot, error)
	// HourSlots returns the slot layout with live booked counts for a date.
	HourSlots(ctx context.Context, date string) ([]models.HourSlot, error)
}

// DefaultEngine implements Engine over the persistence collaborators.
type DefaultEngine struct {
	Capacity capacityRepo.CapacityRepository
	Bookings BookingCounts

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (e *DefaultEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
