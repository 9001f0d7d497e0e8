package availability

import (
	"context"
	"testing"
	"time"

	"knipetak/models"
)

func newTestCalendar(t *testing.T, schedule *fakeScheduleStore, bookings *fakeBookingStore) *Calendar {
	t.Helper()
	r := newTestResolver(t, schedule, bookings, &fakeTreatmentCatalog{})
	c := NewCalendar(r, 2, time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func TestCalendarDayCachesResult(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "11:00", Location: "home"}),
	}
	c := newTestCalendar(t, schedule, &fakeBookingStore{})
	ctx := context.Background()

	first := c.Day(ctx, "2026-06-10")
	if first == nil || len(first.ByLocation) == 0 {
		t.Fatalf("expected slots, got %+v", first)
	}

	// A second read must come from the cache, not re-resolve. Breaking the
	// schedule store makes any re-resolution visible.
	schedule.err = context.DeadlineExceeded
	second := c.Day(ctx, "2026-06-10")
	if second != first {
		t.Error("second read should return the cached value")
	}
}

func TestCalendarMisconfigurationCachedAsNegative(t *testing.T) {
	// No default schedule at all.
	c := newTestCalendar(t, &fakeScheduleStore{}, &fakeBookingStore{})
	ctx := context.Background()

	if day := c.Day(ctx, "2026-06-10"); day != nil {
		t.Fatalf("misconfigured day should resolve to nil, got %+v", day)
	}
	v, attempted := c.Cache().Get("2026-06-10")
	if !attempted || v != nil {
		t.Error("misconfiguration should be cached as an explicit negative entry")
	}
}

func TestCalendarTransientFailureCachedAsEmpty(t *testing.T) {
	schedule := &fakeScheduleStore{err: context.DeadlineExceeded}
	c := newTestCalendar(t, schedule, &fakeBookingStore{})
	ctx := context.Background()

	day := c.Day(ctx, "2026-06-10")
	if day == nil || len(day.ByLocation) != 0 {
		t.Fatalf("transient failure should cache an empty result, got %+v", day)
	}

	// The failure is not retried: fixing the store does not change the
	// cached value until an explicit refresh.
	schedule.err = nil
	schedule.weekly = weekdaySchedule(models.WorkWindow{Start: "09:00", End: "11:00", Location: "home"})
	if again := c.Day(ctx, "2026-06-10"); len(again.ByLocation) != 0 {
		t.Error("cached empty result should not be retried implicitly")
	}

	fresh, err := c.RefreshDay(ctx, "2026-06-10")
	if err != nil {
		t.Fatalf("RefreshDay: %v", err)
	}
	if len(fresh.ByLocation) == 0 {
		t.Error("explicit refresh should re-resolve the day")
	}
}

func TestCalendarRefreshDayReportsError(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "11:00", Location: "home"}),
	}
	c := newTestCalendar(t, schedule, &fakeBookingStore{})
	ctx := context.Background()

	if day := c.Day(ctx, "2026-06-10"); day == nil {
		t.Fatal("expected a resolved day")
	}

	schedule.err = context.DeadlineExceeded
	_, err := c.RefreshDay(ctx, "2026-06-10")
	if err == nil {
		t.Error("RefreshDay should surface the resolution error so callers can keep stale data")
	}
}

func TestCalendarInvalidate(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "11:00", Location: "home"}),
	}
	c := newTestCalendar(t, schedule, &fakeBookingStore{})
	ctx := context.Background()

	c.Day(ctx, "2026-06-10")
	c.Invalidate("2026-06-10")
	if _, attempted := c.Cache().Get("2026-06-10"); attempted {
		t.Error("invalidated day should read as never attempted")
	}
}
