package models

import "time"

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a confirmed reservation record.
type Booking struct {
	ID           string    `bson:"id" json:"id"`                                   // Unique booking identifier (UUID)
	CustomerName string    `bson:"customer_name" json:"customerName"`              // Name the reservation is under
	ContactPhone string    `bson:"contact_phone" json:"contactPhone"`              // National 9-digit phone (no country prefix)
	Date         string    `bson:"reservation_date" json:"reservationDate"`        // "2006-01-02"
	Time         string    `bson:"reservation_time" json:"reservationTime"`        // "15:04"
	PartySize    int       `bson:"party_size" json:"partySize"`                    // Seats consumed against daily capacity
	RiceType     string    `bson:"arroz_type,omitempty" json:"arrozType,omitempty"` // Catalog name, empty when no rice
	RiceServings int       `bson:"arroz_servings,omitempty" json:"arrozServings,omitempty"`
	HighChairs   int       `bson:"high_chairs,omitempty" json:"highChairs,omitempty"`
	Strollers    int       `bson:"strollers,omitempty" json:"strollers,omitempty"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       string    `bson:"status" json:"status"` // "confirmed" or "cancelled"
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// BookingChanges carries the fields of a modification request. Nil fields
// are left untouched by the update.
type BookingChanges struct {
	Date      *string `bson:"reservation_date,omitempty" json:"reservationDate,omitempty"`
	Time      *string `bson:"reservation_time,omitempty" json:"reservationTime,omitempty"`
	PartySize *int    `bson:"party_size,omitempty" json:"partySize,omitempty"`
	Notes     *string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ArchivedBooking is a cancelled booking moved to the archive collection.
type ArchivedBooking struct {
	Booking     Booking   `bson:"booking" json:"booking"`
	CancelledBy string    `bson:"cancelled_by" json:"cancelledBy"` // "customer" or "staff"
	ArchivedAt  time.Time `bson:"archived_at" json:"archivedAt"`
}
