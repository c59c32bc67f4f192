package motivation

import (
	"context"
	"errors"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

var errNoGenerator = errors.New("no motivation generator configured")

// Generator produces a fresh, validated motivation line.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Cache memoizes motivation lines by (task, bucket, completed). A miss calls
// the generator once, even when several callers miss the same key at the
// same time; a generator failure stores the stage fallback so the same key
// is never retried. Safe for concurrent use.
type Cache struct {
	entries  *expirable.LRU[Key, string]
	flight   singleflight.Group
	gen      Generator
	observer Observer
}

// NewCache builds a bounded cache. A nil generator always falls back.
func NewCache(cfg Config, gen Generator, observer Observer) *Cache {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Cache{
		entries:  expirable.NewLRU[Key, string](cfg.CacheSize, nil, cfg.TTL),
		gen:      gen,
		observer: observer,
	}
}

// Get returns the line for req, generating it on a miss. It never fails.
// Callers that wait on another caller's generation emit no lookup event.
func (c *Cache) Get(ctx context.Context, req Request) string {
	key := KeyOf(req)
	if line, ok := c.entries.Get(key); ok {
		c.observer.OnLookup(ctx, LookupEvent{Key: key, Outcome: OutcomeHit})
		return line
	}

	v, _, _ := c.flight.Do(key.String(), func() (any, error) {
		// A generation may have finished between the miss and Do.
		if line, ok := c.entries.Get(key); ok {
			c.observer.OnLookup(ctx, LookupEvent{Key: key, Outcome: OutcomeHit})
			return line, nil
		}

		line, err := c.generate(ctx, req)
		outcome := OutcomeGenerated
		if err != nil {
			line = Fallback(req)
			outcome = OutcomeFallback
		}
		c.entries.Add(key, line)
		c.observer.OnLookup(ctx, LookupEvent{Key: key, Outcome: outcome, Err: err})
		return line, nil
	})
	return v.(string)
}

func (c *Cache) generate(ctx context.Context, req Request) (string, error) {
	if c.gen == nil {
		return "", errNoGenerator
	}
	return c.gen.Generate(ctx, req)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}
