package capacityRepo

import (
	"context"

	"villacarmen/models"
)

// CapacityRepository stores the per-date capacity configuration: open/closed
// overrides, seat budgets, and hour-slot layouts. Lookups return nil when no
// record exists for the date so callers can fall back to the defaults.
type CapacityRepository interface {
	GetDayOverride(ctx context.Context, date string) (*models.DayOverride, error)
	SetDayOverride(ctx context.Context, override models.DayOverride) error
	GetDayBudget(ctx context.Context, date string) (*models.DayBudget, error)
	SetDayBudget(ctx context.Context, budget models.DayBudget) error
	GetHourConfig(ctx context.Context, date string) (*models.DayHourConfig, error)
	SetHourConfig(ctx context.Context, cfg models.DayHourConfig) error
	EnsureIndexes() error
}
