package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"villacarmen/models"
)

func TestMemoryStoreSetGetClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[models.BookingDraft]()

	draft := models.BookingDraft{CustomerName: "Laura", PartySize: 4}
	if err := store.Set(ctx, "612345678", draft); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// The chat ID form and the national form resolve to the same key.
	got, ok, err := store.Get(ctx, "34612345678@s.whatsapp.net")
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if got.CustomerName != "Laura" || got.PartySize != 4 {
		t.Errorf("Get returned %+v", got)
	}

	active, err := store.HasActive(ctx, "612345678")
	if err != nil || !active {
		t.Fatalf("HasActive = %v, %v; want true", active, err)
	}

	if err := store.Clear(ctx, "612345678"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "612345678"); ok {
		t.Error("Get after Clear still returned a value")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore[models.BookingDraft]()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "612345678", models.BookingDraft{Date: "21/09/2026"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	current = current.Add(TTL - time.Second)
	if _, ok, _ := store.Get(ctx, "612345678"); !ok {
		t.Fatal("value expired before TTL elapsed")
	}

	// A hit refreshes nothing; only Set updates the timestamp.
	current = current.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "612345678"); ok {
		t.Fatal("value survived past TTL")
	}
	if active, _ := store.HasActive(ctx, "612345678"); active {
		t.Fatal("HasActive true after expiry")
	}
}

func TestMemoryStoreSetRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore[models.PendingRiceSelection]()
	store.now = func() time.Time { return current }

	store.Set(ctx, "612345678", models.PendingRiceSelection{Requested: "arroz de pollo"})
	current = current.Add(20 * time.Minute)
	store.Set(ctx, "612345678", models.PendingRiceSelection{Requested: "arroz de pollo"})
	current = current.Add(20 * time.Minute)

	if _, ok, _ := store.Get(ctx, "612345678"); !ok {
		t.Fatal("Set did not refresh the TTL window")
	}
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[models.BookingDraft]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Set(ctx, "612345678", models.BookingDraft{PartySize: n + 1})
			store.Get(ctx, "612345678")
		}(i)
	}
	wg.Wait()

	got, ok, err := store.Get(ctx, "612345678")
	if err != nil || !ok {
		t.Fatalf("Get after concurrent writes = ok=%v err=%v", ok, err)
	}
	if got.PartySize < 1 || got.PartySize > 50 {
		t.Errorf("torn write observed: PartySize=%d", got.PartySize)
	}
}
