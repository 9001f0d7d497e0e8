package availability

import (
	"testing"
	"time"

	"knipetak/models"
)

func TestDayCacheThreeStates(t *testing.T) {
	cache := NewDayCache()

	// Absent: never attempted.
	if _, attempted := cache.Get("2026-06-10"); attempted {
		t.Error("fresh cache should report the key as never attempted")
	}

	// Negative: attempted, nothing available.
	cache.Put("2026-06-10", nil)
	v, attempted := cache.Get("2026-06-10")
	if !attempted || v != nil {
		t.Errorf("negative entry should be attempted with nil value, got (%v, %v)", v, attempted)
	}

	// Populated.
	day := &models.DayAvailability{ByLocation: []models.LocationAvailability{{LocationID: "home"}}}
	cache.Put("2026-06-10", day)
	v, attempted = cache.Get("2026-06-10")
	if !attempted || v != day {
		t.Error("populated entry should return the stored value")
	}

	// Deleting restores the never-attempted state.
	cache.Delete("2026-06-10")
	if _, attempted := cache.Get("2026-06-10"); attempted {
		t.Error("deleted key should read as never attempted")
	}
}

func TestDayCacheClearMonth(t *testing.T) {
	cache := NewDayCache()
	cache.Put("2026-06-10", nil)
	cache.Put("2026-06-25", &models.DayAvailability{})
	cache.Put("2026-07-01", &models.DayAvailability{})

	cache.ClearMonth(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	if _, attempted := cache.Get("2026-06-10"); attempted {
		t.Error("June days should be cleared")
	}
	if _, attempted := cache.Get("2026-06-25"); attempted {
		t.Error("June days should be cleared")
	}
	if _, attempted := cache.Get("2026-07-01"); !attempted {
		t.Error("July days should survive a June clear")
	}
}

func TestDayCacheInFlightGuard(t *testing.T) {
	cache := NewDayCache()

	if !cache.BeginFetch("2026-06-10") {
		t.Fatal("first BeginFetch should win")
	}
	if cache.BeginFetch("2026-06-10") {
		t.Error("second BeginFetch for the same key should lose")
	}
	if !cache.BeginFetch("2026-06-11") {
		t.Error("a different key should not be blocked")
	}

	cache.EndFetch("2026-06-10")
	if !cache.BeginFetch("2026-06-10") {
		t.Error("BeginFetch should win again after EndFetch")
	}
}

func TestDayCacheSnapshotIsCopy(t *testing.T) {
	cache := NewDayCache()
	cache.Put("2026-06-10", &models.DayAvailability{})

	snap := cache.Snapshot()
	delete(snap, "2026-06-10")

	if _, attempted := cache.Get("2026-06-10"); !attempted {
		t.Error("mutating a snapshot must not affect the cache")
	}
}
