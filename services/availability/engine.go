package availability

import (
	"context"
	"time"

	"villacarmen/models"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// Evaluate decides a reservation request against the live capacity model.
// All capacity numbers are read fresh at evaluation time.
func (e *DefaultEngine) Evaluate(ctx context.Context, date string, partySize int, timeStr string) (models.AvailabilityDecision, error) {
	logger := utils.GetLogger()

	if partySize <= 0 {
		return models.AvailabilityDecision{Reason: models.RejectInvalid}, nil
	}
	day, err := time.ParseInLocation(DateLayout, date, e.now().Location())
	if err != nil {
		return models.AvailabilityDecision{Reason: models.RejectInvalid}, nil
	}

	today := e.today()
	if day.Before(today) {
		return models.AvailabilityDecision{Reason: models.RejectInvalid}, nil
	}
	// Same-day requests are a human decision, not a capacity one.
	if day.Equal(today) {
		return models.AvailabilityDecision{Reason: models.RejectSameDay}, nil
	}

	// Day status: fixed weekly closures unless overridden.
	snapshot, err := e.DaySnapshot(ctx, date)
	if err != nil {
		return models.AvailabilityDecision{}, err
	}
	if !snapshot.Open {
		decision := models.AvailabilityDecision{Reason: models.RejectClosedDay}
		if next, ok := e.nextOpenDate(ctx, day); ok {
			decision.SuggestedDate = next
		}
		return decision, nil
	}

	// Daily seat budget.
	daily, err := e.DailyCapacity(ctx, date)
	if err != nil {
		return models.AvailabilityDecision{}, err
	}
	if daily.Free() < partySize {
		logger.Debug("daily capacity exhausted",
			zap.String("date", date), zap.Int("free", daily.Free()), zap.Int("partySize", partySize))
		decision := models.AvailabilityDecision{Reason: models.RejectDailyFull}
		if next, ok := e.nextDateWithDailyCapacity(ctx, day, partySize); ok {
			decision.SuggestedDate = next
		}
		return decision, nil
	}

	// Without a requested hour, daily capacity is the whole answer.
	if timeStr == "" {
		return models.AvailabilityDecision{Accepted: true}, nil
	}

	slots, err := e.HourSlots(ctx, date)
	if err != nil {
		return models.AvailabilityDecision{}, err
	}

	requested, found := findSlot(slots, timeStr)
	if !found || requested.Closed || requested.Remaining() < partySize {
		return e.rejectHour(ctx, day, slots, partySize), nil
	}

	return models.AvailabilityDecision{Accepted: true}, nil
}

// rejectHour builds the hour_unavailable rejection: same-day alternates
// first, a future date with both daily and slot capacity otherwise.
func (e *DefaultEngine) rejectHour(ctx context.Context, day time.Time, slots []models.HourSlot, partySize int) models.AvailabilityDecision {
	decision := models.AvailabilityDecision{Reason: models.RejectHourUnavailable}

	for _, slot := range slots {
		if slot.Closed || slot.Remaining() < partySize {
			continue
		}
		decision.SuggestedTimes = append(decision.SuggestedTimes, slot.Time)
		if len(decision.SuggestedTimes) == maxAlternateSlots {
			break
		}
	}
	if len(decision.SuggestedTimes) > 0 {
		return decision
	}

	if next, ok := e.nextDateWithSlotCapacity(ctx, day, partySize); ok {
		decision.SuggestedDate = next
	}
	return decision
}

// DaySnapshot reports whether a date is open, applying the persisted
// override when one exists.
func (e *DefaultEngine) DaySnapshot(ctx context.Context, date string) (models.DaySnapshot, error) {
	override, err := e.Capacity.GetDayOverride(ctx, date)
	if err != nil {
		return models.DaySnapshot{}, err
	}
	if override != nil {
		return models.DaySnapshot{Date: date, Open: override.Open}, nil
	}

	day, err := time.ParseInLocation(DateLayout, date, e.now().Location())
	if err != nil {
		return models.DaySnapshot{Date: date, Open: false}, nil
	}
	return models.DaySnapshot{Date: date, Open: !defaultClosedWeekdays[day.Weekday()]}, nil
}

// DailyCapacity reads the budget and the live booked-seat sum for a date.
func (e *DefaultEngine) DailyCapacity(ctx context.Context, date string) (models.DailyCapacitySnapshot, error) {
	budget := DefaultDailyBudget
	persisted, err := e.Capacity.GetDayBudget(ctx, date)
	if err != nil {
		return models.DailyCapacitySnapshot{}, err
	}
	if persisted != nil {
		budget = persisted.Budget
	}

	booked, err := e.Bookings.BookedSeats(ctx, date)
	if err != nil {
		return models.DailyCapacitySnapshot{}, err
	}
	return models.DailyCapacitySnapshot{Date: date, Budget: budget, Booked: booked}, nil
}

func (e *DefaultEngine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func findSlot(slots []models.HourSlot, timeStr string) (models.HourSlot, bool) {
	for _, slot := range slots {
		if slot.Time == timeStr {
			return slot, true
		}
	}
	return models.HourSlot{}, false
}
