package flow

import (
	"context"

	bookingRepo "villacarmen/database/repository/booking"
	"villacarmen/models"
	"villacarmen/services/availability"
	"villacarmen/services/messaging"
	"villacarmen/services/session"
)

// Flow routes classified conversation turns to the booking, cancellation
// and modification state machines.
type Flow interface {
	// Route handles one inbound turn. Escalation side effects (intro
	// message, contact card) are performed during routing; the response
	// reports the reply text for the transport to send.
	Route(ctx context.Context, signal models.ConversationSignal, msg models.WebhookMessage) models.FlowResponse
}

// ReminderScheduler enqueues the day-before reminder for a new booking.
type ReminderScheduler interface {
	Schedule(ctx context.Context, booking models.Booking) error
}

// RestaurantInfo is the identity used in replies and the escalation card.
type RestaurantInfo struct {
	Name  string
	Phone string
}

// DefaultFlow implements Flow over the session stores, the availability
// engine and the external collaborators.
type DefaultFlow struct {
	Stores       *session.Stores
	Availability availability.Engine
	Bookings     bookingRepo.BookingRepository
	Gateway      messaging.Gateway
	Reminders    ReminderScheduler // optional
	Restaurant   RestaurantInfo
	RiceCatalog  []string // catalog names offered when the customer asks for rice

	commitLocks dateLocks
}

// DefaultRiceCatalog is the house rice menu used when no catalog is injected.
var DefaultRiceCatalog = []string{
	"Paella valenciana",
	"Paella de marisco",
	"Arroz negro",
	"Arroz a banda",
	"Arroz de bogavante",
	"Arroz meloso de pulpo y gambones",
}

func (f *DefaultFlow) catalog() []string {
	if len(f.RiceCatalog) > 0 {
		return f.RiceCatalog
	}
	return DefaultRiceCatalog
}
