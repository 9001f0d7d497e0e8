package availability

import (
	"context"
	"fmt"
	"time"

	bookingRepo "knipetak/database/repository/booking"
	scheduleRepo "knipetak/database/repository/schedule"
	treatmentRepo "knipetak/database/repository/treatment"
	"knipetak/models"
	"knipetak/utils"

	"go.uber.org/zap"
)

// Resolver turns one day's configured work hours, overrides and bookings
// into offerable slots per location.
type Resolver struct {
	Schedule   scheduleRepo.ScheduleStore
	Bookings   bookingRepo.BookingStore
	Treatments treatmentRepo.TreatmentCatalog

	Zone                *time.Location
	StepMinutes         int
	TravelBuffer        time.Duration
	FallbackMinDuration int // minutes, used when the catalog is empty
}

// ResolveDay resolves availability for the given day key.
//
// A nil result with ErrNoDefaultSchedule means the tenant is misconfigured
// (no default weekly schedule at all). A non-nil result with an empty
// ByLocation list means the day genuinely has nothing to offer: day off,
// event day, weekday without default hours, or fully booked.
//
// An override, when present, fully replaces the default weekly schedule
// for that date. An override carrying an event marker suppresses slot
// generation entirely, even if work windows are also configured.
func (r *Resolver) ResolveDay(ctx context.Context, dayKey string) (*models.DayAvailability, error) {
	logger := utils.GetLogger()

	startUTC, endUTC, err := DayBounds(dayKey, r.Zone)
	if err != nil {
		return nil, err
	}

	workHours, event, err := r.workHoursFor(ctx, dayKey)
	if err != nil {
		return nil, err
	}
	if event != nil {
		return &models.DayAvailability{Event: event}, nil
	}
	if workHours == nil || len(workHours.TimeSlots) == 0 {
		return &models.DayAvailability{}, nil
	}

	minDuration, err := r.minTreatmentDuration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine minimum treatment duration: %w", err)
	}

	booked, err := r.bookedIntervals(ctx, startUTC, endUTC)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for %s: %w", dayKey, err)
	}

	dayMidnight, err := time.ParseInLocation(DayKeyLayout, dayKey, r.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid day key %q: %w", dayKey, err)
	}

	result := &models.DayAvailability{}
	for _, window := range workHours.TimeSlots {
		slots, err := GenerateSlots(window, dayMidnight, booked, r.StepMinutes, minDuration)
		if err != nil {
			logger.Warn("dropping work window with malformed time",
				zap.String("date", dayKey),
				zap.String("location", window.Location),
				zap.Error(err))
			continue
		}
		if len(slots) == 0 {
			continue
		}
		result.ByLocation = append(result.ByLocation, models.LocationAvailability{
			LocationID: window.Location,
			Window:     window,
			Slots:      slots,
		})
	}
	return result, nil
}

// workHoursFor applies override precedence: an override for the date is
// authoritative; only in its absence is the default weekly schedule read.
func (r *Resolver) workHoursFor(ctx context.Context, dayKey string) (*models.WorkHours, *models.EventMarker, error) {
	override, err := r.Schedule.GetOverride(ctx, dayKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch override for %s: %w", dayKey, err)
	}
	if override != nil {
		return &override.WorkHours, override.Event, nil
	}

	weekly, err := r.Schedule.GetDefaultWeekly(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch default weekly schedule: %w", err)
	}
	if weekly == nil {
		return nil, nil, ErrNoDefaultSchedule
	}

	weekday, err := Weekday(dayKey, r.Zone)
	if err != nil {
		return nil, nil, err
	}
	hours, ok := weekly[weekday]
	if !ok {
		// The schedule exists, it simply has no windows for this weekday.
		return nil, nil, nil
	}
	return &hours, nil, nil
}

// bookedIntervals expands every active booking in the day bounds into an
// occupancy interval with the travel buffer added to its end only.
func (r *Resolver) bookedIntervals(ctx context.Context, startUTC, endUTC time.Time) ([]Interval, error) {
	bookings, err := r.Bookings.FindActiveByDateRange(ctx, startUTC, endUTC)
	if err != nil {
		return nil, err
	}
	var intervals []Interval
	for _, b := range bookings {
		if !b.Active() {
			continue
		}
		if b.Timeslot.Start.IsZero() || b.Timeslot.End.IsZero() {
			utils.GetLogger().Warn("skipping booking with invalid timeslot", zap.String("bookingID", b.ID))
			continue
		}
		intervals = append(intervals, Interval{
			Start: b.Timeslot.Start,
			End:   b.Timeslot.End.Add(r.TravelBuffer),
		})
	}
	return intervals, nil
}

// minTreatmentDuration returns the smallest published duration across all
// treatments. Offering slots at this granularity guarantees no slot is
// shown that could not fit even the shortest bookable treatment; longer
// treatments are re-validated at confirm time.
func (r *Resolver) minTreatmentDuration(ctx context.Context) (int, error) {
	treatments, err := r.Treatments.List(ctx)
	if err != nil {
		return 0, err
	}
	min := r.FallbackMinDuration
	for _, t := range treatments {
		for _, d := range t.Durations {
			if d.Duration > 0 && d.Duration < min {
				min = d.Duration
			}
		}
	}
	return min, nil
}
