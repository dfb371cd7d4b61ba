package bookingRepo

import (
	"context"
	"fmt"

	"villacarmen/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByPhone returns the active bookings for a national phone number,
// soonest first.
func (r *mongoBookingRepo) FindByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	filter := bson.M{
		"contact_phone": phone,
		"status":        models.BookingStatusConfirmed,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "reservation_date", Value: 1},
		{Key: "reservation_time", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookedSeats sums the party sizes of active bookings for a date.
func (r *mongoBookingRepo) BookedSeats(ctx context.Context, date string) (int, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"reservation_date": date,
			"status":           models.BookingStatusConfirmed,
		}},
		{"$group": bson.M{
			"_id":   nil,
			"seats": bson.M{"$sum": "$party_size"},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate booked seats: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Seats int `bson:"seats"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Seats, nil
}

// BookedSeatsBySlot groups active booked seats by reservation time for a date.
func (r *mongoBookingRepo) BookedSeatsBySlot(ctx context.Context, date string) (map[string]int, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"reservation_date": date,
			"status":           models.BookingStatusConfirmed,
		}},
		{"$group": bson.M{
			"_id":   "$reservation_time",
			"seats": bson.M{"$sum": "$party_size"},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booked seats by slot: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Time  string `bson:"_id"`
		Seats int    `bson:"seats"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	seats := make(map[string]int, len(rows))
	for _, row := range rows {
		seats[row.Time] = row.Seats
	}
	return seats, nil
}
