package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"knipetak/models"
	"knipetak/utils"

	"go.uber.org/zap"
)

// resolveFunc resolves one day and returns the value to cache. The error
// reports whether the underlying resolution succeeded; the value is always
// cacheable (failures map to negative entries).
type resolveFunc func(ctx context.Context, dayKey string) (*models.DayAvailability, error)

// Prefetcher warms the day cache for the visible month without issuing
// unbounded concurrent resolutions. A generation token invalidates a pass
// when the visible month changes: a stale pass stops issuing work and its
// in-flight results are discarded instead of being committed to the cache.
type Prefetcher struct {
	cache   *DayCache
	resolve resolveFunc

	Concurrency   int
	SafetyTimeout time.Duration
	Zone          *time.Location
	Now           func() time.Time

	mu         sync.Mutex
	generation int
	loaded     bool
}

func NewPrefetcher(cache *DayCache, resolve resolveFunc, concurrency int, safetyTimeout time.Duration, zone *time.Location) *Prefetcher {
	return &Prefetcher{
		cache:         cache,
		resolve:       resolve,
		Concurrency:   concurrency,
		SafetyTimeout: safetyTimeout,
		Zone:          zone,
		Now:           time.Now,
	}
}

// StartMonth begins warming the given month, today forward. Past days are
// never prefetched. Any previous pass becomes stale. The initial-load flag
// is reset and flips back as soon as the first day resolves successfully,
// or when the safety timeout expires, whichever comes first.
func (p *Prefetcher) StartMonth(ctx context.Context, month time.Time) {
	days := p.pendingDays(month)

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.loaded = len(days) == 0
	p.mu.Unlock()

	for _, day := range days {
		p.cache.Delete(day)
	}
	if len(days) == 0 {
		return
	}

	go p.run(ctx, gen, days)
}

// Stop invalidates the current pass without starting a new one.
func (p *Prefetcher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
}

// InitialLoadDone reports whether the UI can render the month.
func (p *Prefetcher) InitialLoadDone() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// pendingDays lists the day keys of the month from today forward, with the
// current week ordered before the rest of the month.
func (p *Prefetcher) pendingDays(month time.Time) []string {
	now := p.Now().In(p.Zone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.Zone)
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, p.Zone)
	monthEnd := monthStart.AddDate(0, 1, 0)

	start := monthStart
	if today.After(start) {
		start = today
	}
	if !start.Before(monthEnd) {
		return nil
	}

	var days []time.Time
	for d := start; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	// Current week first, remainder chronological.
	endOfWeek := today.AddDate(0, 0, 7-int(today.Weekday()))
	sort.SliceStable(days, func(i, j int) bool {
		aInWeek := !days[i].After(endOfWeek)
		bInWeek := !days[j].After(endOfWeek)
		if aInWeek != bInWeek {
			return aInWeek
		}
		return days[i].Before(days[j])
	})

	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Format(DayKeyLayout)
	}
	return keys
}

func (p *Prefetcher) run(ctx context.Context, gen int, days []string) {
	logger := utils.GetLogger()

	timer := time.AfterFunc(p.SafetyTimeout, func() {
		if p.forceLoaded(gen) {
			logger.Warn("prefetch safety timeout reached, forcing initial load",
				zap.Duration("timeout", p.SafetyTimeout))
		}
	})
	defer timer.Stop()

	sem := make(chan struct{}, p.Concurrency)
	var wg sync.WaitGroup

	for _, day := range days {
		if p.stale(gen) {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(dayKey string) {
			defer wg.Done()
			defer func() { <-sem }()
			p.fetchOne(ctx, gen, dayKey)
		}(day)
	}
	wg.Wait()

	if !p.stale(gen) {
		p.markLoaded(gen)
		logger.Debug("month prefetch complete", zap.Int("days", len(days)))
	}
}

// fetchOne resolves a single day and commits the result only if the pass
// is still current. A failed day is recorded as a negative entry and does
// not abort the pass.
func (p *Prefetcher) fetchOne(ctx context.Context, gen int, dayKey string) {
	if _, attempted := p.cache.Get(dayKey); attempted {
		p.markLoaded(gen)
		return
	}
	if !p.cache.BeginFetch(dayKey) {
		return
	}
	defer p.cache.EndFetch(dayKey)

	value, err := p.resolve(ctx, dayKey)
	if p.stale(gen) {
		return
	}
	p.cache.Put(dayKey, value)
	if err == nil {
		p.markLoaded(gen)
	}
}

func (p *Prefetcher) stale(gen int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation != gen
}

func (p *Prefetcher) markLoaded(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == gen {
		p.loaded = true
	}
}

// forceLoaded flips the flag for a still-current, not yet loaded pass.
// The pass itself keeps draining in the background.
func (p *Prefetcher) forceLoaded(gen int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen || p.loaded {
		return false
	}
	p.loaded = true
	return true
}
