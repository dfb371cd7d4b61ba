package availability

import (
	"context"
	"testing"
	"time"

	"villacarmen/models"
)

// fakeCapacity is an in-memory CapacityRepository for engine tests.
type fakeCapacity struct {
	overrides map[string]models.DayOverride
	budgets   map[string]models.DayBudget
	hours     map[string]models.DayHourConfig
}

func newFakeCapacity() *fakeCapacity {
	return &fakeCapacity{
		overrides: make(map[string]models.DayOverride),
		budgets:   make(map[string]models.DayBudget),
		hours:     make(map[string]models.DayHourConfig),
	}
}

func (f *fakeCapacity) GetDayOverride(_ context.Context, date string) (*models.DayOverride, error) {
	if o, ok := f.overrides[date]; ok {
		return &o, nil
	}
	return nil, nil
}

func (f *fakeCapacity) SetDayOverride(_ context.Context, o models.DayOverride) error {
	f.overrides[o.Date] = o
	return nil
}

func (f *fakeCapacity) GetDayBudget(_ context.Context, date string) (*models.DayBudget, error) {
	if b, ok := f.budgets[date]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeCapacity) SetDayBudget(_ context.Context, b models.DayBudget) error {
	f.budgets[b.Date] = b
	return nil
}

func (f *fakeCapacity) GetHourConfig(_ context.Context, date string) (*models.DayHourConfig, error) {
	if c, ok := f.hours[date]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCapacity) SetHourConfig(_ context.Context, c models.DayHourConfig) error {
	f.hours[c.Date] = c
	return nil
}

func (f *fakeCapacity) EnsureIndexes() error { return nil }

// fakeCounts serves fixed booked-seat aggregates.
type fakeCounts struct {
	seats  map[string]int
	bySlot map[string]map[string]int
}

func (f *fakeCounts) BookedSeats(_ context.Context, date string) (int, error) {
	return f.seats[date], nil
}

func (f *fakeCounts) BookedSeatsBySlot(_ context.Context, date string) (map[string]int, error) {
	return f.bySlot[date], nil
}

// 2026-09-17 is a Thursday; Monday through Wednesday are the default
// closing days.
var testNow = time.Date(2026, 9, 17, 12, 0, 0, 0, time.UTC)

func newTestEngine(capacity *fakeCapacity, counts *fakeCounts) *DefaultEngine {
	if capacity == nil {
		capacity = newFakeCapacity()
	}
	if counts == nil {
		counts = &fakeCounts{seats: map[string]int{}, bySlot: map[string]map[string]int{}}
	}
	return &DefaultEngine{
		Capacity: capacity,
		Bookings: counts,
		Now:      func() time.Time { return testNow },
	}
}

func TestEvaluateInvalidRequests(t *testing.T) {
	engine := newTestEngine(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		date      string
		partySize int
	}{
		{"zero party size", "2026-09-18", 0},
		{"negative party size", "2026-09-18", -3},
		{"unparsable date", "18/09/2026", 4},
		{"past date", "2026-09-10", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := engine.Evaluate(ctx, tt.date, tt.partySize, "")
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if decision.Accepted || decision.Reason != models.RejectInvalid {
				t.Errorf("decision = %+v, want invalid rejection", decision)
			}
		})
	}
}

func TestEvaluateSameDay(t *testing.T) {
	engine := newTestEngine(nil, nil)

	decision, err := engine.Evaluate(context.Background(), "2026-09-17", 4, "14:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectSameDay {
		t.Errorf("decision = %+v, want same_day rejection", decision)
	}
}

func TestEvaluateClosedDaySuggestsNextOpen(t *testing.T) {
	engine := newTestEngine(nil, nil)

	// 2026-09-21 is a Monday; 22 and 23 are also closed by default.
	decision, err := engine.Evaluate(context.Background(), "2026-09-21", 4, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectClosedDay {
		t.Fatalf("decision = %+v, want closed_day rejection", decision)
	}
	if decision.SuggestedDate != "2026-09-24" {
		t.Errorf("SuggestedDate = %q, want 2026-09-24", decision.SuggestedDate)
	}

	snapshot, err := engine.DaySnapshot(context.Background(), decision.SuggestedDate)
	if err != nil || !snapshot.Open {
		t.Errorf("suggested date not open: %+v, %v", snapshot, err)
	}
}

func TestEvaluateDayOverrideOpensClosedWeekday(t *testing.T) {
	capacity := newFakeCapacity()
	capacity.overrides["2026-09-21"] = models.DayOverride{Date: "2026-09-21", Open: true}
	engine := newTestEngine(capacity, nil)

	decision, err := engine.Evaluate(context.Background(), "2026-09-21", 4, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !decision.Accepted {
		t.Errorf("decision = %+v, want accepted on overridden Monday", decision)
	}
}

func TestEvaluateDailyFull(t *testing.T) {
	counts := &fakeCounts{
		seats:  map[string]int{"2026-09-18": 42},
		bySlot: map[string]map[string]int{},
	}
	engine := newTestEngine(nil, counts)

	decision, err := engine.Evaluate(context.Background(), "2026-09-18", 4, "14:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectDailyFull {
		t.Fatalf("decision = %+v, want daily_full rejection", decision)
	}
	// Saturday the 19th is open and empty.
	if decision.SuggestedDate != "2026-09-19" {
		t.Errorf("SuggestedDate = %q, want 2026-09-19", decision.SuggestedDate)
	}
}

func TestDailyCapacityFreeIsBudgetMinusBooked(t *testing.T) {
	capacity := newFakeCapacity()
	capacity.budgets["2026-09-18"] = models.DayBudget{Date: "2026-09-18", Budget: 30}
	counts := &fakeCounts{seats: map[string]int{"2026-09-18": 10, "2026-09-19": 10}}
	engine := newTestEngine(capacity, counts)

	persisted, err := engine.DailyCapacity(context.Background(), "2026-09-18")
	if err != nil {
		t.Fatalf("DailyCapacity: %v", err)
	}
	if persisted.Budget != 30 || persisted.Free() != 20 {
		t.Errorf("persisted budget snapshot = %+v", persisted)
	}

	fallback, err := engine.DailyCapacity(context.Background(), "2026-09-19")
	if err != nil {
		t.Fatalf("DailyCapacity: %v", err)
	}
	if fallback.Budget != DefaultDailyBudget || fallback.Free() != DefaultDailyBudget-10 {
		t.Errorf("default budget snapshot = %+v", fallback)
	}
}

func TestEvaluateAcceptsRequestedSlot(t *testing.T) {
	counts := &fakeCounts{
		seats:  map[string]int{"2026-09-18": 5},
		bySlot: map[string]map[string]int{"2026-09-18": {"14:00": 5}},
	}
	engine := newTestEngine(nil, counts)

	decision, err := engine.Evaluate(context.Background(), "2026-09-18", 4, "14:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !decision.Accepted {
		t.Errorf("decision = %+v, want accepted", decision)
	}
}

func TestEvaluateFullSlotSuggestsAlternates(t *testing.T) {
	// Default layout: 4 equal shares of 45 seats, 12 per slot.
	counts := &fakeCounts{
		seats:  map[string]int{"2026-09-18": 12},
		bySlot: map[string]map[string]int{"2026-09-18": {"14:00": 12}},
	}
	engine := newTestEngine(nil, counts)

	decision, err := engine.Evaluate(context.Background(), "2026-09-18", 2, "14:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectHourUnavailable {
		t.Fatalf("decision = %+v, want hour_unavailable rejection", decision)
	}
	want := []string{"13:30", "14:30", "15:00"}
	if len(decision.SuggestedTimes) != len(want) {
		t.Fatalf("SuggestedTimes = %v, want %v", decision.SuggestedTimes, want)
	}
	for i, slot := range want {
		if decision.SuggestedTimes[i] != slot {
			t.Errorf("SuggestedTimes[%d] = %q, want %q", i, decision.SuggestedTimes[i], slot)
		}
	}

	// Every alternate must actually fit the party.
	slots, err := engine.HourSlots(context.Background(), "2026-09-18")
	if err != nil {
		t.Fatalf("HourSlots: %v", err)
	}
	for _, suggested := range decision.SuggestedTimes {
		slot, found := findSlot(slots, suggested)
		if !found || slot.Closed || slot.Remaining() < 2 {
			t.Errorf("alternate %q does not fit the party: %+v", suggested, slot)
		}
	}
}

func TestEvaluateUnknownSlotRejectsHour(t *testing.T) {
	engine := newTestEngine(nil, nil)

	decision, err := engine.Evaluate(context.Background(), "2026-09-18", 2, "20:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectHourUnavailable {
		t.Errorf("decision = %+v, want hour_unavailable rejection", decision)
	}
}

func TestEvaluateAllSlotsFullSuggestsDate(t *testing.T) {
	full := map[string]int{"13:30": 12, "14:00": 12, "14:30": 12, "15:00": 12}
	counts := &fakeCounts{
		// Daily budget still has room, but no single slot does.
		seats:  map[string]int{"2026-09-18": 40},
		bySlot: map[string]map[string]int{"2026-09-18": full},
	}
	capacity := newFakeCapacity()
	capacity.budgets["2026-09-18"] = models.DayBudget{Date: "2026-09-18", Budget: 50}
	engine := newTestEngine(capacity, counts)

	decision, err := engine.Evaluate(context.Background(), "2026-09-18", 4, "14:00")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if decision.Accepted || decision.Reason != models.RejectHourUnavailable {
		t.Fatalf("decision = %+v, want hour_unavailable rejection", decision)
	}
	if len(decision.SuggestedTimes) != 0 {
		t.Errorf("SuggestedTimes = %v, want none", decision.SuggestedTimes)
	}
	if decision.SuggestedDate != "2026-09-19" {
		t.Errorf("SuggestedDate = %q, want 2026-09-19", decision.SuggestedDate)
	}
}

func TestHourSlotsPersistedLayout(t *testing.T) {
	capacity := newFakeCapacity()
	capacity.budgets["2026-09-18"] = models.DayBudget{Date: "2026-09-18", Budget: 40}
	capacity.hours["2026-09-18"] = models.DayHourConfig{
		Date: "2026-09-18",
		Hours: []models.HourConfig{
			{Time: "13:30", SharePercent: 50},
			{Time: "14:30", SharePercent: 50},
			{Time: "15:30", SharePercent: 0, Closed: true},
		},
	}
	counts := &fakeCounts{
		seats:  map[string]int{"2026-09-18": 8},
		bySlot: map[string]map[string]int{"2026-09-18": {"13:30": 8}},
	}
	engine := newTestEngine(capacity, counts)

	slots, err := engine.HourSlots(context.Background(), "2026-09-18")
	if err != nil {
		t.Fatalf("HourSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	if slots[0].Capacity != 20 || slots[0].Booked != 8 || slots[0].Remaining() != 12 {
		t.Errorf("slot 13:30 = %+v", slots[0])
	}
	if !slots[2].Closed {
		t.Errorf("slot 15:30 should carry the closed flag: %+v", slots[2])
	}
}

func TestHourSlotsDefaultLayoutSplitsEqually(t *testing.T) {
	engine := newTestEngine(nil, nil)

	slots, err := engine.HourSlots(context.Background(), "2026-09-18")
	if err != nil {
		t.Fatalf("HourSlots: %v", err)
	}
	if len(slots) != len(DefaultHours) {
		t.Fatalf("got %d slots, want %d", len(slots), len(DefaultHours))
	}
	for i, slot := range slots {
		if slot.Time != DefaultHours[i] {
			t.Errorf("slot[%d].Time = %q, want %q", i, slot.Time, DefaultHours[i])
		}
		if slot.Capacity != 12 { // ceil(45/4)
			t.Errorf("slot %q capacity = %d, want 12", slot.Time, slot.Capacity)
		}
	}
}
