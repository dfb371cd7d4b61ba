package availability

import (
	"context"
	"math"

	"villacarmen/models"
)

// HourSlots resolves the slot layout for a date: the persisted per-date
// hour configuration when one exists, otherwise the generated default of
// the opening hours split into equal capacity shares. Booked counts are
// read fresh from the booking aggregates.
func (e *DefaultEngine) HourSlots(ctx context.Context, date string) ([]models.HourSlot, error) {
	daily, err := e.DailyCapacity(ctx, date)
	if err != nil {
		return nil, err
	}

	configs, err := e.hourConfigs(ctx, date)
	if err != nil {
		return nil, err
	}

	booked, err := e.Bookings.BookedSeatsBySlot(ctx, date)
	if err != nil {
		return nil, err
	}

	slots := make([]models.HourSlot, 0, len(configs))
	for _, cfg := range configs {
		slots = append(slots, models.HourSlot{
			Time:     cfg.Time,
			Capacity: int(math.Ceil(cfg.SharePercent / 100 * float64(daily.Budget))),
			Booked:   booked[cfg.Time],
			Closed:   cfg.Closed,
		})
	}
	return slots, nil
}

func (e *DefaultEngine) hourConfigs(ctx context.Context, date string) ([]models.HourConfig, error) {
	persisted, err := e.Capacity.GetHourConfig(ctx, date)
	if err != nil {
		return nil, err
	}
	if persisted != nil && len(persisted.Hours) > 0 {
		return persisted.Hours, nil
	}

	share := 100 / float64(len(DefaultHours))
	configs := make([]models.HourConfig, 0, len(DefaultHours))
	for _, hour := range DefaultHours {
		configs = append(configs, models.HourConfig{Time: hour, SharePercent: share})
	}
	return configs, nil
}
