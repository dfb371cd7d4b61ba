package bookingRepo

import (
	"context"
	"time"

	"villacarmen/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new booking and returns its ID.
func (r *mongoBookingRepo) Create(ctx context.Context, booking models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return "", err
	}
	return booking.ID, nil
}

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update applies the non-nil fields of changes to a booking.
func (r *mongoBookingRepo) Update(ctx context.Context, id string, changes models.BookingChanges) (bool, error) {
	set := bson.M{"updated_at": time.Now()}
	if changes.Date != nil {
		set["reservation_date"] = *changes.Date
	}
	if changes.Time != nil {
		set["reservation_time"] = *changes.Time
	}
	if changes.PartySize != nil {
		set["party_size"] = *changes.PartySize
	}
	if changes.Notes != nil {
		set["notes"] = *changes.Notes
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Cancel marks a booking cancelled.
func (r *mongoBookingRepo) Cancel(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.BookingStatusConfirmed},
		bson.M{"$set": bson.M{"status": models.BookingStatusCancelled, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ArchiveCancelled copies a cancelled booking into the archive collection.
func (r *mongoBookingRepo) ArchiveCancelled(ctx context.Context, booking models.Booking, actor string) (bool, error) {
	record := models.ArchivedBooking{
		Booking:     booking,
		CancelledBy: actor,
		ArchivedAt:  time.Now(),
	}
	_, err := r.archive.InsertOne(ctx, record)
	if err != nil {
		return false, err
	}
	return true, nil
}
