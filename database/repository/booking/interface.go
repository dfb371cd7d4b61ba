package bookingRepo

import (
	"context"

	"villacarmen/models"
)

// BookingRepository defines persistence for reservation records.
type BookingRepository interface {
	Create(ctx context.Context, booking models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindByPhone returns the active (confirmed) bookings for a national
	// 9-digit phone number, soonest first.
	FindByPhone(ctx context.Context, phone string) ([]models.Booking, error)
	Update(ctx context.Context, id string, changes models.BookingChanges) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
	// ArchiveCancelled copies a cancelled booking into the archive
	// collection, recording who cancelled it.
	ArchiveCancelled(ctx context.Context, booking models.Booking, actor string) (bool, error)
	// BookedSeats returns the sum of active bookings' party sizes for a date.
	BookedSeats(ctx context.Context, date string) (int, error)
	// BookedSeatsBySlot returns active booked seats per "15:04" time key
	// for a date.
	BookedSeatsBySlot(ctx context.Context, date string) (map[string]int, error)
	EnsureIndexes() error
}
