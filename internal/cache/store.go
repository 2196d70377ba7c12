// Package cache keeps listing responses for the calling application and
// drops them when a mutation invalidates their tag.
//
// Invalidation works through generations: every tag has a current
// generation id, each entry remembers the generation it was fetched under,
// and an entry is only served while the two match. Bumping a tag therefore
// retires every entry under it at once, including ones whose fetch is still
// in flight.
package cache

import (
	"context"
	"time"
)

type Entry struct {
	Tag        string
	Generation string
	Payload    []byte
	StoredAt   time.Time
	ExpiresAt  time.Time // zero means no expiry
}

func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Store persists entries and tag generations. Implementations must be safe
// for concurrent use. Get returns (nil, false, nil) on a miss. Generation
// returns "" for a tag that was never bumped.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, e *Entry) error
	Delete(ctx context.Context, key string) error
	Generation(ctx context.Context, tag string) (string, error)
	Bump(ctx context.Context, tag string) (string, error)
	Close() error
}
