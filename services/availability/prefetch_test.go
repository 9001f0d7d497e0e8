package availability

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"knipetak/models"
)

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func fixedNow(t *testing.T) (func() time.Time, *time.Location) {
	t.Helper()
	zone := osloZone(t)
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, zone)
	return func() time.Time { return now }, zone
}

func TestPendingDaysOrderAndRange(t *testing.T) {
	now, zone := fixedNow(t)
	p := NewPrefetcher(NewDayCache(), nil, 5, time.Second, zone)
	p.Now = now

	days := p.pendingDays(time.Date(2026, 6, 1, 0, 0, 0, 0, zone))

	// June 2026: today is Wednesday the 10th, so 21 days remain.
	if len(days) != 21 {
		t.Fatalf("expected 21 pending days, got %d", len(days))
	}
	if days[0] != "2026-06-10" {
		t.Errorf("first day = %s, want today", days[0])
	}
	// The current week (through Sunday the 14th) comes before the rest.
	wantHead := []string{"2026-06-10", "2026-06-11", "2026-06-12", "2026-06-13", "2026-06-14", "2026-06-15"}
	for i, want := range wantHead {
		if days[i] != want {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want)
		}
	}
	for _, d := range days {
		if d < "2026-06-10" {
			t.Errorf("past day %s must never be prefetched", d)
		}
	}
}

func TestPendingDaysPastMonth(t *testing.T) {
	now, zone := fixedNow(t)
	p := NewPrefetcher(NewDayCache(), nil, 5, time.Second, zone)
	p.Now = now

	if days := p.pendingDays(time.Date(2026, 5, 1, 0, 0, 0, 0, zone)); len(days) != 0 {
		t.Errorf("a fully past month should have no pending days, got %v", days)
	}
}

func TestPrefetchBoundedConcurrency(t *testing.T) {
	now, zone := fixedNow(t)
	cache := NewDayCache()

	var current, max int64
	resolve := func(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
		c := atomic.AddInt64(&current, 1)
		for {
			m := atomic.LoadInt64(&max)
			if c <= m || atomic.CompareAndSwapInt64(&max, m, c) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return &models.DayAvailability{}, nil
	}

	p := NewPrefetcher(cache, resolve, 3, 5*time.Second, zone)
	p.Now = now
	p.StartMonth(context.Background(), now())

	waitFor(t, 5*time.Second, func() bool {
		return len(cache.Snapshot()) == 21
	})
	if got := atomic.LoadInt64(&max); got > 3 {
		t.Errorf("observed %d concurrent resolutions, limit is 3", got)
	}
}

func TestPrefetchFirstSuccessFlipsInitialLoad(t *testing.T) {
	now, zone := fixedNow(t)
	cache := NewDayCache()

	release := make(chan struct{})
	var once sync.Once
	resolve := func(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
		var first bool
		once.Do(func() { first = true })
		if !first {
			<-release
		}
		return &models.DayAvailability{}, nil
	}

	p := NewPrefetcher(cache, resolve, 2, time.Minute, zone)
	p.Now = now

	if p.InitialLoadDone() {
		t.Fatal("initial load must start false")
	}
	p.StartMonth(context.Background(), now())

	waitFor(t, 5*time.Second, p.InitialLoadDone)
	close(release)
}

func TestPrefetchSafetyTimeoutForcesLoad(t *testing.T) {
	now, zone := fixedNow(t)
	cache := NewDayCache()

	release := make(chan struct{})
	resolve := func(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
		<-release
		return &models.DayAvailability{}, nil
	}

	p := NewPrefetcher(cache, resolve, 2, 30*time.Millisecond, zone)
	p.Now = now
	p.StartMonth(context.Background(), now())

	// Nothing can resolve, but the safety timeout must still unblock the UI.
	waitFor(t, 5*time.Second, p.InitialLoadDone)
	close(release)
}

func TestPrefetchStaleGenerationDiscardsResults(t *testing.T) {
	now, zone := fixedNow(t)
	cache := NewDayCache()

	started := make(chan struct{}, 64)
	release := make(chan struct{})
	resolve := func(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
		started <- struct{}{}
		<-release
		return &models.DayAvailability{ByLocation: []models.LocationAvailability{{LocationID: "home"}}}, nil
	}

	p := NewPrefetcher(cache, resolve, 2, time.Minute, zone)
	p.Now = now
	p.StartMonth(context.Background(), now())

	// Wait for in-flight resolutions, then invalidate the pass before they
	// finish.
	<-started
	p.Stop()
	close(release)

	// Give the stale workers time to run to completion; none of their
	// results may land in the cache.
	time.Sleep(50 * time.Millisecond)
	for day, v := range cache.Snapshot() {
		if v != nil && len(v.ByLocation) > 0 {
			t.Errorf("stale result for %s was committed to the cache", day)
		}
	}
}
