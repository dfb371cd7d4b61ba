package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"villacarmen/models"
	"villacarmen/services/availability"
	"villacarmen/services/session"
)

const testChatID = "34612345678@s.whatsapp.net"

// fakeGateway records outbound sends instead of hitting UAZAPI. With fail
// set, every send reports delivery failure.
type fakeGateway struct {
	mu    sync.Mutex
	fail  bool
	texts []string
	cards []string
	menus []string
}

func (g *fakeGateway) SendText(_ context.Context, _ string, text string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.texts = append(g.texts, text)
	return !g.fail
}

func (g *fakeGateway) SendContactCard(_ context.Context, _ string, name, contactPhone, org string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cards = append(g.cards, name+" "+contactPhone+" "+org)
	return !g.fail
}

func (g *fakeGateway) SendMenu(_ context.Context, _ string, text string, _ []string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.menus = append(g.menus, text)
	return !g.fail
}

func (g *fakeGateway) FindMessages(_ context.Context, _ string, _ int) ([]models.HistoryMessage, error) {
	return nil, nil
}

// fakeBookings is an in-memory BookingRepository.
type fakeBookings struct {
	mu        sync.Mutex
	seq       int
	bookings  map[string]models.Booking
	archived  []models.ArchivedBooking
	createErr error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[string]models.Booking)}
}

func (r *fakeBookings) Create(_ context.Context, booking models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return "", r.createErr
	}
	r.seq++
	id := fmt.Sprintf("bk-%d", r.seq)
	booking.ID = id
	booking.CreatedAt = time.Now()
	r.bookings[id] = booking
	return id, nil
}

func (r *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *fakeBookings) FindByPhone(_ context.Context, phone string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for i := 1; i <= r.seq; i++ {
		b, ok := r.bookings[fmt.Sprintf("bk-%d", i)]
		if ok && b.ContactPhone == phone && b.Status == models.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookings) Update(_ context.Context, id string, changes models.BookingChanges) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	if changes.Date != nil {
		b.Date = *changes.Date
	}
	if changes.Time != nil {
		b.Time = *changes.Time
	}
	if changes.PartySize != nil {
		b.PartySize = *changes.PartySize
	}
	if changes.Notes != nil {
		b.Notes = *changes.Notes
	}
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookings) Cancel(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	b.Status = models.BookingStatusCancelled
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookings) ArchiveCancelled(_ context.Context, booking models.Booking, actor string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archived = append(r.archived, models.ArchivedBooking{Booking: booking, CancelledBy: actor, ArchivedAt: time.Now()})
	return true, nil
}

func (r *fakeBookings) BookedSeats(_ context.Context, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, b := range r.bookings {
		if b.Date == date && b.Status == models.BookingStatusConfirmed {
			total += b.PartySize
		}
	}
	return total, nil
}

func (r *fakeBookings) BookedSeatsBySlot(_ context.Context, date string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int)
	for _, b := range r.bookings {
		if b.Date == date && b.Status == models.BookingStatusConfirmed {
			out[b.Time] += b.PartySize
		}
	}
	return out, nil
}

func (r *fakeBookings) EnsureIndexes() error { return nil }

func (r *fakeBookings) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// stubEngine answers every evaluation with a canned decision.
type stubEngine struct {
	decision models.AvailabilityDecision
	calls    int
}

func (e *stubEngine) Evaluate(_ context.Context, _ string, _ int, _ string) (models.AvailabilityDecision, error) {
	e.calls++
	return e.decision, nil
}

func (e *stubEngine) DaySnapshot(_ context.Context, date string) (models.DaySnapshot, error) {
	return models.DaySnapshot{Date: date, Open: true}, nil
}

func (e *stubEngine) DailyCapacity(_ context.Context, date string) (models.DailyCapacitySnapshot, error) {
	return models.DailyCapacitySnapshot{Date: date, Budget: availability.DefaultDailyBudget}, nil
}

func (e *stubEngine) HourSlots(_ context.Context, _ string) ([]models.HourSlot, error) {
	return nil, nil
}

func acceptingEngine() *stubEngine {
	return &stubEngine{decision: models.AvailabilityDecision{Accepted: true}}
}

func newTestFlow(engine availability.Engine, repo *fakeBookings, gw *fakeGateway) *DefaultFlow {
	return &DefaultFlow{
		Stores:       session.NewMemoryStores(),
		Availability: engine,
		Bookings:     repo,
		Gateway:      gw,
		Restaurant:   RestaurantInfo{Name: "Restaurante Villa Carmen", Phone: "961234567"},
	}
}

func inbound(text string) models.WebhookMessage {
	return models.WebhookMessage{
		ChatID:   testChatID,
		Text:     text,
		PushName: "Laura",
		Type:     models.MessageTypeText,
	}
}

// completeExtraction is a one-turn extraction carrying everything the gate
// needs, with no extras and no rice.
func completeExtraction(date, timeStr string, partySize int) models.BookingDraft {
	return models.BookingDraft{
		CustomerName: "Laura",
		Date:         date,
		Time:         timeStr,
		PartySize:    partySize,
		Rice:         models.RiceChoice{State: models.RiceNone},
		HighChairs:   models.Known(0),
		Strollers:    models.Known(0),
	}
}
