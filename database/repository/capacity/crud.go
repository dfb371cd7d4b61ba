package capacityRepo

import (
	"context"
	"errors"

	"villacarmen/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upsert = options.Replace().SetUpsert(true)

// GetDayOverride returns the open/closed override for a date, or nil when
// none is persisted.
func (r *mongoCapacityRepo) GetDayOverride(ctx context.Context, date string) (*models.DayOverride, error) {
	var override models.DayOverride
	err := r.overrides.FindOne(ctx, bson.M{"date": date}).Decode(&override)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// SetDayOverride upserts the open/closed override for a date.
func (r *mongoCapacityRepo) SetDayOverride(ctx context.Context, override models.DayOverride) error {
	_, err := r.overrides.ReplaceOne(ctx, bson.M{"date": override.Date}, override, upsert)
	return err
}

// GetDayBudget returns the persisted seat budget for a date, or nil when
// none is persisted.
func (r *mongoCapacityRepo) GetDayBudget(ctx context.Context, date string) (*models.DayBudget, error) {
	var budget models.DayBudget
	err := r.budgets.FindOne(ctx, bson.M{"date": date}).Decode(&budget)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// SetDayBudget upserts the seat budget for a date.
func (r *mongoCapacityRepo) SetDayBudget(ctx context.Context, budget models.DayBudget) error {
	_, err := r.budgets.ReplaceOne(ctx, bson.M{"date": budget.Date}, budget, upsert)
	return err
}

// GetHourConfig returns the persisted hour layout for a date, or nil when
// the generated default applies.
func (r *mongoCapacityRepo) GetHourConfig(ctx context.Context, date string) (*models.DayHourConfig, error) {
	var cfg models.DayHourConfig
	err := r.hours.FindOne(ctx, bson.M{"date": date}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetHourConfig upserts the hour layout for a date.
func (r *mongoCapacityRepo) SetHourConfig(ctx context.Context, cfg models.DayHourConfig) error {
	_, err := r.hours.ReplaceOne(ctx, bson.M{"date": cfg.Date}, cfg, upsert)
	return err
}
