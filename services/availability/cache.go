package availability

import (
	"strings"
	"sync"
	"time"

	"knipetak/models"
)

// DayCache maps day keys to resolved availability. Three states are
// distinguished per key: absent (never attempted), present with a nil
// value (attempted, nothing available or resolution misconfigured), and
// present with a result. Clearing a day removes the key outright so the
// next access is a fresh miss.
//
// The in-flight set prevents two concurrent resolutions of the same key;
// the second caller is a no-op and relies on the first to populate the
// cache.
type DayCache struct {
	mu       sync.Mutex
	days     map[string]*models.DayAvailability
	inflight map[string]bool
}

func NewDayCache() *DayCache {
	return &DayCache{
		days:     make(map[string]*models.DayAvailability),
		inflight: make(map[string]bool),
	}
}

// Get returns the cached result and whether the day was ever attempted.
func (c *DayCache) Get(dayKey string) (*models.DayAvailability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.days[dayKey]
	return v, ok
}

// Put records a resolution result. A nil value is an explicit negative
// entry, distinct from an absent key.
func (c *DayCache) Put(dayKey string, v *models.DayAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days[dayKey] = v
}

// Delete removes the key entirely.
func (c *DayCache) Delete(dayKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.days, dayKey)
}

// ClearMonth removes every key in the given month, forcing the prefetcher
// to redo those days on its next pass.
func (c *DayCache) ClearMonth(month time.Time) {
	prefix := month.Format("2006-01")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.days {
		if strings.HasPrefix(key, prefix) {
			delete(c.days, key)
		}
	}
}

// ClearAll removes every cached day.
func (c *DayCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = make(map[string]*models.DayAvailability)
}

// BeginFetch marks the day as being resolved. It returns false if a
// resolution is already in flight for the key.
func (c *DayCache) BeginFetch(dayKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[dayKey] {
		return false
	}
	c.inflight[dayKey] = true
	return true
}

// EndFetch releases the in-flight mark for the key.
func (c *DayCache) EndFetch(dayKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, dayKey)
}

// Snapshot returns a copy of the cache contents for read-only display.
func (c *DayCache) Snapshot() map[string]*models.DayAvailability {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*models.DayAvailability, len(c.days))
	for k, v := range c.days {
		out[k] = v
	}
	return out
}
