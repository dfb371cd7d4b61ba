package session

import (
	"context"

	"villacarmen/models"

	"github.com/go-redis/redis/v8"
)

// Stores bundles the four independent conversation stores the flow
// consults. There is no cross-store transaction; routing precedence decides
// which one is authoritative for a turn.
type Stores struct {
	Drafts        Store[models.BookingDraft]
	Rice          Store[models.PendingRiceSelection]
	Modifications Store[models.ModificationSession]
	Cancellations Store[models.CancellationSession]
}

// NewMemoryStores returns in-process stores, used in development and tests.
func NewMemoryStores() *Stores {
	return &Stores{
		Drafts:        NewMemoryStore[models.BookingDraft](),
		Rice:          NewMemoryStore[models.PendingRiceSelection](),
		Modifications: NewMemoryStore[models.ModificationSession](),
		Cancellations: NewMemoryStore[models.CancellationSession](),
	}
}

// NewRedisStores returns Redis-backed stores sharing one client, each under
// its own key prefix.
func NewRedisStores(client *redis.Client) *Stores {
	return &Stores{
		Drafts:        NewRedisStore[models.BookingDraft](client, PrefixDraft),
		Rice:          NewRedisStore[models.PendingRiceSelection](client, PrefixRice),
		Modifications: NewRedisStore[models.ModificationSession](client, PrefixModify),
		Cancellations: NewRedisStore[models.CancellationSession](client, PrefixCancel),
	}
}

// ClearAll wipes every store for a phone. Used by the development
// clear-state endpoint between test conversations.
func (s *Stores) ClearAll(ctx context.Context, phone string) error {
	var firstErr error
	for _, clear := range []func(context.Context, string) error{
		s.Drafts.Clear,
		s.Rice.Clear,
		s.Modifications.Clear,
		s.Cancellations.Clear,
	} {
		if err := clear(ctx, phone); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
