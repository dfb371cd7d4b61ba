package availability

import (
	"context"
	"time"

	"villacarmen/utils"

	"go.uber.org/zap"
)

// nextOpenDate searches forward for the next open date within the bounded
// window. Returns ok=false when the window is exhausted or the context is
// cancelled.
func (e *DefaultEngine) nextOpenDate(ctx context.Context, from time.Time) (string, bool) {
	for i := 1; i <= openDaySearchLimit; i++ {
		if ctx.Err() != nil {
			return "", false
		}
		date := from.AddDate(0, 0, i).Format(DateLayout)
		snapshot, err := e.DaySnapshot(ctx, date)
		if err != nil {
			utils.GetLogger().Warn("open-date search aborted", zap.String("date", date), zap.Error(err))
			return "", false
		}
		if snapshot.Open {
			return date, true
		}
	}
	return "", false
}

// nextDateWithDailyCapacity searches forward for the next open date whose
// daily free capacity covers the party.
func (e *DefaultEngine) nextDateWithDailyCapacity(ctx context.Context, from time.Time, partySize int) (string, bool) {
	for i := 1; i <= capacitySearchLimit; i++ {
		if ctx.Err() != nil {
			return "", false
		}
		date := from.AddDate(0, 0, i).Format(DateLayout)
		snapshot, err := e.DaySnapshot(ctx, date)
		if err != nil || !snapshot.Open {
			continue
		}
		daily, err := e.DailyCapacity(ctx, date)
		if err != nil {
			utils.GetLogger().Warn("capacity search aborted", zap.String("date", date), zap.Error(err))
			return "", false
		}
		if daily.Free() >= partySize {
			return date, true
		}
	}
	return "", false
}

// nextDateWithSlotCapacity searches forward for the next open date with
// both daily capacity and at least one hour slot that fits the party.
func (e *DefaultEngine) nextDateWithSlotCapacity(ctx context.Context, from time.Time, partySize int) (string, bool) {
	for i := 1; i <= capacitySearchLimit; i++ {
		if ctx.Err() != nil {
			return "", false
		}
		date := from.AddDate(0, 0, i).Format(DateLayout)
		snapshot, err := e.DaySnapshot(ctx, date)
		if err != nil || !snapshot.Open {
			continue
		}
		daily, err := e.DailyCapacity(ctx, date)
		if err != nil || daily.Free() < partySize {
			continue
		}
		slots, err := e.HourSlots(ctx, date)
		if err != nil {
			utils.GetLogger().Warn("slot search aborted", zap.String("date", date), zap.Error(err))
			return "", false
		}
		for _, slot := range slots {
			if !slot.Closed && slot.Remaining() >= partySize {
				return date, true
			}
		}
	}
	return "", false
}
