package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a keyed TTL store for normalized upstream results. Entries are
// evicted purely by expiry; there is no size pressure policy. Implementations
// must be safe for concurrent use, but Get-then-Set races are acceptable: a
// duplicate upstream fill is benign and exactly-once is not required.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FetchJSON resolves key from the cache, otherwise runs fill and stores the
// marshaled result. out receives the value either way.
func FetchJSON(ctx context.Context, c Cache, key string, ttl time.Duration, out any, fill func(ctx context.Context) (any, error)) error {
	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		if err == nil && ok {
			if uErr := json.Unmarshal(raw, out); uErr == nil {
				return nil
			}
			// Corrupt entry: fall through and refill.
		}
	}

	fresh, err := fill(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(fresh)
	if err != nil {
		return err
	}
	if c != nil {
		_ = c.Set(ctx, key, raw, ttl)
	}
	return json.Unmarshal(raw, out)
}
