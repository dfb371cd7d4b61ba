package session

import (
	"context"
	"time"
)

// TTL is how long a session survives without an update. Entries older than
// this are treated as absent; expiry is checked lazily on read.
const TTL = 30 * time.Minute

// Key prefixes for the four conversation stores.
const (
	PrefixDraft  = "session:draft:"
	PrefixRice   = "session:rice:"
	PrefixModify = "session:modify:"
	PrefixCancel = "session:cancel:"
)

// Store is the uniform contract of one ephemeral conversation store. Keys
// are normalized phone identifiers; values are unseen by the store. Stores
// are independent of each other: the flow alone decides which store is
// authoritative for a turn.
type Store[T any] interface {
	// Get returns the session for the phone, or ok=false when none exists
	// or the entry has outlived the TTL.
	Get(ctx context.Context, phone string) (T, bool, error)
	// Set stores the session and stamps its update time, resetting the TTL.
	Set(ctx context.Context, phone string, value T) error
	Clear(ctx context.Context, phone string) error
	HasActive(ctx context.Context, phone string) (bool, error)
}
