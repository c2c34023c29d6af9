package metadata

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/vmunix/sortarr/internal/media"
)

// Resolver looks up candidates for an identity: cache first, then every
// configured provider in priority order. A failing provider only costs its
// own candidates; resolution fails as a whole only when the context is
// canceled.
type Resolver struct {
	providers []Provider // priority order
	limiters  map[string]*rate.Limiter
	cache     *Cache
	log       *slog.Logger
}

// NewResolver creates a resolver. Providers are queried in the order
// given. rates maps provider name to its request budget; providers missing
// from the map are not limited.
func NewResolver(providers []Provider, rates map[string]rate.Limit, cache *Cache, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	limiters := make(map[string]*rate.Limiter, len(rates))
	for name, limit := range rates {
		limiters[name] = rate.NewLimiter(limit, 1)
	}
	return &Resolver{
		providers: providers,
		limiters:  limiters,
		cache:     cache,
		log:       log,
	}
}

// Resolve returns ranked candidates for an identity. The result is empty
// (with nil error) when every provider fails or returns nothing; the
// caller proceeds to scoring with zero candidates.
func (r *Resolver) Resolve(ctx context.Context, id media.Identity) ([]media.Candidate, error) {
	key := id.Key()
	if candidates, ok := r.cache.Get(ctx, key); ok {
		r.log.Debug("cache hit", "key", key, "candidates", len(candidates))
		return candidates, nil
	}

	var merged []media.Candidate
	seen := make(map[string]bool)

	for priority, p := range r.providers {
		if limiter, ok := r.limiters[p.Name()]; ok {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		candidates, err := p.Search(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Warn("provider search failed", "provider", p.Name(), "key", key, "error", err)
			continue
		}

		for _, c := range candidates {
			dedupe := c.Provider + ":" + c.ExternalID
			if seen[dedupe] {
				continue
			}
			seen[dedupe] = true
			c.ProviderRank = priority
			merged = append(merged, c)
		}
	}

	if len(merged) > 0 {
		// Written back unconditionally, even if scoring later rejects
		// every candidate: a low-confidence decision must not re-fetch
		// on rerun.
		if err := r.cache.Put(ctx, key, merged); err != nil {
			r.log.Warn("cache write failed", "key", key, "error", err)
		}
	}

	return merged, nil
}
