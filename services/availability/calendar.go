package availability

import (
	"context"
	"errors"
	"time"

	"knipetak/models"
	"knipetak/utils"

	"go.uber.org/zap"
)

// Calendar is the client-facing availability surface: a day cache, the
// resolver behind it, and a prefetcher that keeps the visible month warm.
//
// On-demand lookups triggered by explicit date selection bypass the
// prefetcher's concurrency ceiling; they are user-triggered and
// latency-sensitive.
type Calendar struct {
	resolver   *Resolver
	cache      *DayCache
	prefetcher *Prefetcher
}

func NewCalendar(resolver *Resolver, prefetchConcurrency int, safetyTimeout time.Duration) *Calendar {
	c := &Calendar{
		resolver: resolver,
		cache:    NewDayCache(),
	}
	c.prefetcher = NewPrefetcher(c.cache, c.resolveForCache, prefetchConcurrency, safetyTimeout, resolver.Zone)
	return c
}

// Cache exposes the day cache for read-only snapshots.
func (c *Calendar) Cache() *DayCache {
	return c.cache
}

// Day returns availability for the day key, resolving on a cache miss.
// The returned value is nil when the day resolved to nothing (negative
// entry) or when another resolution for the key is already in flight.
func (c *Calendar) Day(ctx context.Context, dayKey string) *models.DayAvailability {
	if v, attempted := c.cache.Get(dayKey); attempted {
		return v
	}
	return c.FetchDay(ctx, dayKey)
}

// FetchDay resolves the day and caches the outcome. Failures are cached as
// negative entries so one broken day never retry-loops; they surface to
// the user as "no availability" rather than an error.
func (c *Calendar) FetchDay(ctx context.Context, dayKey string) *models.DayAvailability {
	if !c.cache.BeginFetch(dayKey) {
		// Another caller is resolving this key; rely on it to populate.
		v, _ := c.cache.Get(dayKey)
		return v
	}
	defer c.cache.EndFetch(dayKey)

	value, _ := c.resolveForCache(ctx, dayKey)
	c.cache.Put(dayKey, value)
	return value
}

// resolveForCache maps resolution outcomes to cacheable values:
// misconfiguration (no default schedule) becomes an explicit nil entry so
// callers can distinguish it from "day off", and transient failures become
// empty results. Neither is retried automatically.
func (c *Calendar) resolveForCache(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
	result, err := c.resolver.ResolveDay(ctx, dayKey)
	if err == nil {
		return result, nil
	}

	logger := utils.GetLogger()
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Error("day resolution misconfigured", zap.String("date", dayKey), zap.Error(err))
		return nil, err
	}
	logger.Warn("day resolution failed, caching empty result", zap.String("date", dayKey), zap.Error(err))
	return &models.DayAvailability{}, err
}

// RefreshDay invalidates and re-resolves a day, returning the fresh value
// and the underlying resolution error. On failure the cache still receives
// a negative entry, but the caller can keep displaying its stale slot list.
func (c *Calendar) RefreshDay(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
	c.cache.Delete(dayKey)
	if !c.cache.BeginFetch(dayKey) {
		v, _ := c.cache.Get(dayKey)
		return v, nil
	}
	defer c.cache.EndFetch(dayKey)

	value, err := c.resolveForCache(ctx, dayKey)
	c.cache.Put(dayKey, value)
	return value, err
}

// Invalidate removes the cached entry for a day so the next access
// re-resolves it.
func (c *Calendar) Invalidate(dayKey string) {
	c.cache.Delete(dayKey)
}

// ChangeVisibleMonth clears the month's cached days and starts a fresh
// prefetch pass, today forward. Any running pass becomes stale.
func (c *Calendar) ChangeVisibleMonth(ctx context.Context, month time.Time) {
	c.prefetcher.StartMonth(ctx, month)
}

// InitialLoadDone reports whether the visible month has enough data to
// render.
func (c *Calendar) InitialLoadDone() bool {
	return c.prefetcher.InitialLoadDone()
}

// Snapshot returns the current cache contents.
func (c *Calendar) Snapshot() map[string]*models.DayAvailability {
	return c.cache.Snapshot()
}

// Stop invalidates any running prefetch pass.
func (c *Calendar) Stop() {
	c.prefetcher.Stop()
}
