package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"knipetak/models"
)

type fakeScheduleStore struct {
	overrides map[string]*models.DayOverride
	weekly    models.WeeklySchedule
	err       error
}

func (f *fakeScheduleStore) GetOverride(ctx context.Context, dayKey string) (*models.DayOverride, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.overrides[dayKey], nil
}

func (f *fakeScheduleStore) GetDefaultWeekly(ctx context.Context) (models.WeeklySchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.weekly, nil
}

func (f *fakeScheduleStore) SetDefaultWeekly(ctx context.Context, schedule models.WeeklySchedule) error {
	f.weekly = schedule
	return nil
}

func (f *fakeScheduleStore) SetOverride(ctx context.Context, override models.DayOverride) error {
	if f.overrides == nil {
		f.overrides = make(map[string]*models.DayOverride)
	}
	f.overrides[override.Date] = &override
	return nil
}

func (f *fakeScheduleStore) DeleteOverride(ctx context.Context, dayKey string) error {
	delete(f.overrides, dayKey)
	return nil
}

func (f *fakeScheduleStore) ListOverrides(ctx context.Context, from, to string) ([]models.DayOverride, error) {
	var out []models.DayOverride
	for key, o := range f.overrides {
		if key >= from && key <= to {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeBookingStore struct {
	bookings  []models.Booking
	createErr error
	created   []models.Booking
	statuses  map[string]string
}

func (f *fakeBookingStore) FindActiveByDateRange(ctx context.Context, startUTC, endUTC time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if !b.Active() {
			continue
		}
		if !b.Timeslot.Start.Before(startUTC) && b.Timeslot.Start.Before(endUTC) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Create(ctx context.Context, draft models.Booking) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	draft.ID = "bk-1"
	f.created = append(f.created, draft)
	f.bookings = append(f.bookings, draft)
	return draft.ID, nil
}

func (f *fakeBookingStore) SetStatus(ctx context.Context, bookingID, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[bookingID] = status
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			f.bookings[i].Status = status
		}
	}
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID {
			copy := b
			return &copy, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (f *fakeBookingStore) ListByCustomer(ctx context.Context, customerRef string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerRef == customerRef {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeTreatmentCatalog struct {
	treatments []models.Treatment
	err        error
}

func (f *fakeTreatmentCatalog) List(ctx context.Context) ([]models.Treatment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.treatments, nil
}

func (f *fakeTreatmentCatalog) GetByID(ctx context.Context, treatmentID string) (*models.Treatment, error) {
	for _, tr := range f.treatments {
		if tr.ID == treatmentID {
			copy := tr
			return &copy, nil
		}
	}
	return nil, errors.New("treatment not found")
}

func newTestResolver(t *testing.T, schedule *fakeScheduleStore, bookings *fakeBookingStore, catalog *fakeTreatmentCatalog) *Resolver {
	t.Helper()
	return &Resolver{
		Schedule:            schedule,
		Bookings:            bookings,
		Treatments:          catalog,
		Zone:                osloZone(t),
		StepMinutes:         15,
		TravelBuffer:        15 * time.Minute,
		FallbackMinDuration: 30,
	}
}

func weekdaySchedule(windows ...models.WorkWindow) models.WeeklySchedule {
	return models.WeeklySchedule{
		"monday":    {TimeSlots: windows},
		"tuesday":   {TimeSlots: windows},
		"wednesday": {TimeSlots: windows},
		"thursday":  {TimeSlots: windows},
		"friday":    {TimeSlots: windows},
	}
}

func TestResolveDayDefaultWeekly(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "11:00", Location: "home"}),
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	// 2026-06-10 is a Wednesday.
	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(day.ByLocation) != 1 {
		t.Fatalf("expected 1 location, got %d", len(day.ByLocation))
	}
	if day.ByLocation[0].LocationID != "home" {
		t.Errorf("location = %q, want home", day.ByLocation[0].LocationID)
	}
	if len(day.ByLocation[0].Slots) != 8 {
		t.Errorf("expected 8 slots for a two-hour window, got %v", day.ByLocation[0].Slots)
	}
}

func TestResolveDayOverrideReplacesDefault(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "17:00", Location: "home"}),
		overrides: map[string]*models.DayOverride{
			"2026-06-10": {
				Date:      "2026-06-10",
				WorkHours: models.WorkHours{TimeSlots: []models.WorkWindow{{Start: "12:00", End: "13:00", Location: "clinic"}}},
			},
		},
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(day.ByLocation) != 1 || day.ByLocation[0].LocationID != "clinic" {
		t.Fatalf("override should fully replace default windows, got %+v", day.ByLocation)
	}
	if got := day.ByLocation[0].Slots[0]; got != "12:00" {
		t.Errorf("first slot = %q, want 12:00", got)
	}
}

func TestResolveDayOverrideDayOff(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "17:00", Location: "home"}),
		overrides: map[string]*models.DayOverride{
			"2026-06-10": {Date: "2026-06-10"},
		},
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if day == nil || len(day.ByLocation) != 0 {
		t.Errorf("empty override should yield a day off, got %+v", day)
	}
}

func TestResolveDayEventSuppressesSlots(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "17:00", Location: "home"}),
		overrides: map[string]*models.DayOverride{
			"2026-06-10": {
				Date:      "2026-06-10",
				WorkHours: models.WorkHours{TimeSlots: []models.WorkWindow{{Start: "09:00", End: "17:00", Location: "home"}}},
				Event:     &models.EventMarker{Name: "festival"},
			},
		},
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if len(day.ByLocation) != 0 {
		t.Errorf("event day should offer no slots even with configured windows, got %+v", day.ByLocation)
	}
	if day.Event == nil || day.Event.Name != "festival" {
		t.Errorf("event marker should be carried through, got %+v", day.Event)
	}
}

func TestResolveDayNoDefaultSchedule(t *testing.T) {
	r := newTestResolver(t, &fakeScheduleStore{}, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	_, err := r.ResolveDay(context.Background(), "2026-06-10")
	if !errors.Is(err, ErrNoDefaultSchedule) {
		t.Fatalf("expected ErrNoDefaultSchedule, got %v", err)
	}
}

func TestResolveDayWeekdayWithoutHours(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: models.WeeklySchedule{
			"monday": {TimeSlots: []models.WorkWindow{{Start: "09:00", End: "17:00", Location: "home"}}},
		},
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	// A Saturday; the schedule only covers Monday.
	day, err := r.ResolveDay(context.Background(), "2026-06-13")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	if day == nil || len(day.ByLocation) != 0 {
		t.Errorf("weekday without hours should resolve to an empty day, got %+v", day)
	}
}

func TestResolveDayMalformedWindowDropped(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(
			models.WorkWindow{Start: "9am", End: "17:00", Location: "broken"},
			models.WorkWindow{Start: "12:00", End: "13:00", Location: "clinic"},
		),
	}
	r := newTestResolver(t, schedule, &fakeBookingStore{}, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("a malformed window must not fail the day: %v", err)
	}
	if len(day.ByLocation) != 1 || day.ByLocation[0].LocationID != "clinic" {
		t.Errorf("expected only the well-formed window to survive, got %+v", day.ByLocation)
	}
}

func TestResolveDayTravelBufferBlocksFollowingSlot(t *testing.T) {
	zone := osloZone(t)
	start := time.Date(2026, 6, 10, 10, 0, 0, 0, zone)
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "12:00", Location: "home"}),
	}
	bookings := &fakeBookingStore{
		bookings: []models.Booking{{
			ID:       "bk-existing",
			Status:   models.BookingStatusConfirmed,
			Timeslot: models.TimeslotRange{Start: start.UTC(), End: start.Add(30 * time.Minute).UTC()},
		}},
	}
	r := newTestResolver(t, schedule, bookings, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	offered := make(map[string]bool)
	for _, s := range day.ByLocation[0].Slots {
		offered[s] = true
	}
	// The booking occupies 10:00-10:30 plus travel, so 10:30 is still
	// blocked and 10:45 is the first slot after it.
	if offered["10:30"] {
		t.Error("10:30 should be blocked by the travel buffer")
	}
	if !offered["10:45"] {
		t.Error("10:45 should be the first slot after the buffered booking")
	}
	if !offered["09:30"] {
		t.Error("09:30 ends exactly at the booking start and should be offered")
	}
}

func TestResolveDayCancelledBookingIgnored(t *testing.T) {
	zone := osloZone(t)
	start := time.Date(2026, 6, 10, 10, 0, 0, 0, zone)
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "12:00", Location: "home"}),
	}
	bookings := &fakeBookingStore{
		bookings: []models.Booking{{
			ID:       "bk-cancelled",
			Status:   models.BookingStatusCancelled,
			Timeslot: models.TimeslotRange{Start: start.UTC(), End: start.Add(30 * time.Minute).UTC()},
		}},
	}
	r := newTestResolver(t, schedule, bookings, &fakeTreatmentCatalog{})

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	offered := make(map[string]bool)
	for _, s := range day.ByLocation[0].Slots {
		offered[s] = true
	}
	if !offered["10:00"] {
		t.Error("cancelled bookings must not occupy their timeslot")
	}
}

func TestResolveDayMinDurationFromCatalog(t *testing.T) {
	schedule := &fakeScheduleStore{
		weekly: weekdaySchedule(models.WorkWindow{Start: "09:00", End: "10:00", Location: "home"}),
	}
	catalog := &fakeTreatmentCatalog{
		treatments: []models.Treatment{
			{ID: "t1", Durations: []models.DurationOption{{Duration: 60, Price: 900}, {Duration: 25, Price: 450}}},
		},
	}
	zone := osloZone(t)
	start := time.Date(2026, 6, 10, 9, 30, 0, 0, zone)
	bookings := &fakeBookingStore{
		bookings: []models.Booking{{
			ID:       "bk-1",
			Status:   models.BookingStatusConfirmed,
			Timeslot: models.TimeslotRange{Start: start.UTC(), End: start.Add(15 * time.Minute).UTC()},
		}},
	}
	r := newTestResolver(t, schedule, bookings, catalog)

	day, err := r.ResolveDay(context.Background(), "2026-06-10")
	if err != nil {
		t.Fatalf("ResolveDay: %v", err)
	}
	offered := make(map[string]bool)
	for _, s := range day.ByLocation[0].Slots {
		offered[s] = true
	}
	// With a 25 minute minimum from the catalog, a 09:00 slot spans
	// [09:00, 09:25) and clears the 09:30 booking; a 30 minute fallback
	// would have blocked it.
	if !offered["09:00"] {
		t.Error("09:00 should be offered with the catalog's 25 minute minimum")
	}
	if offered["09:15"] {
		t.Error("09:15 spans into the booking and should be blocked")
	}
}
