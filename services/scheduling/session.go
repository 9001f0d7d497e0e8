package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "knipetak/database/repository/booking"
	treatmentRepo "knipetak/database/repository/treatment"
	"knipetak/models"
	"knipetak/services/availability"
	"knipetak/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State names the steps of the booking flow. Only Confirmed is terminal;
// Back and CancelSelection walk the flow backwards.
type State string

const (
	StateBrowsing       State = "browsing"
	StateDateSelected   State = "dateSelected"
	StateSlotSelected   State = "slotSelected"
	StateDetailsEntered State = "detailsEntered"
	StateConfirmed      State = "confirmed"
)

// ReminderScheduler queues an appointment reminder for a booking.
type ReminderScheduler interface {
	ScheduleBookingReminder(ctx context.Context, booking models.Booking) error
}

// Service holds the collaborators shared by all scheduling sessions.
type Service struct {
	Calendar   *availability.Calendar
	Bookings   bookingRepo.BookingStore
	Treatments treatmentRepo.TreatmentCatalog
	Reminders  ReminderScheduler // optional

	Zone               *time.Location
	CommitSettleDelay  time.Duration
	CancelRefreshDelay time.Duration
}

// NewSession creates a fresh scheduling session in the Browsing state.
func (svc *Service) NewSession() *Session {
	return &Session{
		svc: svc,
		state: SessionState{
			ID:        uuid.New().String(),
			State:     StateBrowsing,
			GroupSize: 1,
		},
	}
}

// SessionState is the serializable selection state of one session.
type SessionState struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	SelectedDate     string `json:"selectedDate,omitempty"` // day key
	SelectedTime     string `json:"selectedTime,omitempty"` // "HH:MM"
	SelectedLocation string `json:"selectedLocation,omitempty"`

	IsGroupBooking bool   `json:"isGroupBooking"`
	GroupSize      int    `json:"groupSize"`
	TreatmentID    string `json:"treatmentId,omitempty"`
	Duration       int    `json:"duration,omitempty"` // minutes; total for groups

	CustomerRef string `json:"customerRef,omitempty"` // set when authenticated
	IsGuest     bool   `json:"isGuestBooking"`
	GuestName   string `json:"guestName,omitempty"`
	GuestEmail  string `json:"guestEmail,omitempty"`
	GuestPhone  string `json:"guestPhone,omitempty"`

	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	PostalCode      int    `json:"postalCode,omitempty"`
	CustomerMessage string `json:"customerMessage,omitempty"`

	CompletedBookingID string `json:"completedBookingId,omitempty"`
}

// Session is one customer's walk through the booking flow. All methods are
// safe for concurrent use.
type Session struct {
	svc *Service

	mu      sync.Mutex
	state   SessionState
	slots   []models.LocationAvailability // slot list shown for the selected day
	event   *models.EventMarker
	lastErr *ValidationError
}

// State returns a copy of the current selection state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Slots returns the slot list currently shown for the selected day.
func (s *Session) Slots() []models.LocationAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots
}

// Event returns the event marker of the selected day, if any.
func (s *Session) Event() *models.EventMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// LastValidationError returns the most recent confirm-time rejection.
func (s *Session) LastValidationError() *ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Restore replaces the selection state, used when resuming a session from
// a snapshot.
func (s *Session) Restore(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// SelectDate handles both preview (hover prefetch) and committed date
// selection. A committed selection clears the prior time and location and
// fetches the day's slots only when the day is not already cached.
func (s *Session) SelectDate(ctx context.Context, dayKey string, previewOnly bool) {
	if previewOnly {
		// Warm the cache without touching the selection.
		if _, attempted := s.svc.Calendar.Cache().Get(dayKey); !attempted {
			s.svc.Calendar.FetchDay(ctx, dayKey)
		}
		return
	}

	s.mu.Lock()
	s.state.SelectedDate = dayKey
	s.state.SelectedTime = ""
	s.state.SelectedLocation = ""
	s.state.State = StateDateSelected
	s.mu.Unlock()

	day := s.svc.Calendar.Day(ctx, dayKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedDate != dayKey {
		// Selection moved on while resolving; drop the stale result.
		return
	}
	if day != nil {
		s.slots = day.ByLocation
		s.event = day.Event
	} else {
		s.slots = nil
		s.event = nil
	}
}

// SelectSlot records the chosen time and location. The day must have been
// selected and resolved first.
func (s *Session) SelectSlot(timeStr, locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedDate == "" {
		return NewValidationError(CodeInvalidState, "select a date before a time slot")
	}
	if _, attempted := s.svc.Calendar.Cache().Get(s.state.SelectedDate); !attempted {
		return NewValidationError(CodeInvalidState, "selected day is not loaded yet")
	}
	s.state.SelectedTime = timeStr
	s.state.SelectedLocation = locationID
	s.state.State = StateSlotSelected
	return nil
}

// Back returns from details entry to slot selection.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.State == StateDetailsEntered {
		s.state.State = StateSlotSelected
	}
}

// CancelSelection abandons the chosen slot and returns to date selection.
func (s *Session) CancelSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedTime = ""
	s.state.SelectedLocation = ""
	if s.state.SelectedDate != "" {
		s.state.State = StateDateSelected
	} else {
		s.state.State = StateBrowsing
	}
}

func (s *Session) SetGroupMode(isGroup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsGroupBooking = isGroup
	s.enterDetailsLocked()
}

func (s *Session) SetGroupSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GroupSize = n
	s.enterDetailsLocked()
}

func (s *Session) SetTreatment(treatmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TreatmentID = treatmentID
	s.enterDetailsLocked()
}

func (s *Session) SetDuration(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Duration = minutes
	s.enterDetailsLocked()
}

func (s *Session) SetCustomerRef(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CustomerRef = ref
}

func (s *Session) SetGuestDetails(name, email, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsGuest = true
	s.state.GuestName = name
	s.state.GuestEmail = email
	s.state.GuestPhone = phone
	s.enterDetailsLocked()
}

func (s *Session) SetCustomerAddress(address, city string, postalCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Address = address
	s.state.City = city
	s.state.PostalCode = postalCode
	s.enterDetailsLocked()
}

func (s *Session) SetCustomerMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CustomerMessage = message
}

func (s *Session) enterDetailsLocked() {
	if s.state.State == StateSlotSelected {
		s.state.State = StateDetailsEntered
	}
}

// Confirm validates the full selection and creates the booking. The
// returned id is final as soon as this method returns; the availability
// refresh is a separate phase (SettleAndRefresh) that the caller may
// await, retry, or ignore. A refresh failure never rolls back the booking.
func (s *Session) Confirm(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateLocked(); err != nil {
		s.lastErr = err
		return "", err
	}

	treatment, err := s.svc.Treatments.GetByID(ctx, s.state.TreatmentID)
	if err != nil {
		return "", fmt.Errorf("failed to load treatment: %w", err)
	}

	price, err := ResolvePricing(*treatment, s.state.IsGroupBooking, s.state.GroupSize, s.state.Duration)
	if err != nil {
		if verr, ok := err.(*ValidationError); ok {
			s.lastErr = verr
		}
		return "", err
	}

	start, err := time.ParseInLocation(
		availability.DayKeyLayout+" 15:04",
		s.state.SelectedDate+" "+s.state.SelectedTime,
		s.svc.Zone,
	)
	if err != nil {
		verr := NewValidationError(CodeMissingSelection, "selected time is not a valid HH:MM value")
		s.lastErr = verr
		return "", verr
	}
	end := start.Add(time.Duration(s.state.Duration) * time.Minute)

	customerRef := s.state.CustomerRef
	if customerRef == "" {
		customerRef = "guest_" + uuid.New().String()
	}

	draft := models.Booking{
		CustomerRef:   customerRef,
		CustomerName:  s.state.GuestName,
		CustomerEmail: s.state.GuestEmail,
		CustomerPhone: s.state.GuestPhone,
		Date:          s.state.SelectedDate,
		Duration:      s.state.Duration,
		Location: models.CustomerLocation{
			Address:    s.state.Address,
			City:       s.state.City,
			PostalCode: s.state.PostalCode,
		},
		Price:           price,
		Status:          models.BookingStatusPending,
		CustomerMessage: s.state.CustomerMessage,
		Timeslot:        models.TimeslotRange{Start: start.UTC(), End: end.UTC()},
		TreatmentID:     s.state.TreatmentID,
		IsGuest:         s.state.IsGuest,
		GroupSize:       s.groupSizeLocked(),
	}

	bookingID, err := s.svc.Bookings.Create(ctx, draft)
	if err != nil {
		// No cache mutation on commit failure; the session stays where it was.
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	if s.svc.Reminders != nil {
		draft.ID = bookingID
		if err := s.svc.Reminders.ScheduleBookingReminder(ctx, draft); err != nil {
			utils.GetLogger().Warn("failed to queue appointment reminder",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	s.lastErr = nil
	s.state.CompletedBookingID = bookingID
	s.state.State = StateConfirmed
	return bookingID, nil
}

func (s *Session) groupSizeLocked() int {
	if s.state.IsGroupBooking {
		return s.state.GroupSize
	}
	return 0
}

// validateLocked enforces the confirm-time preconditions. An
// unauthenticated, non-guest caller is diverted to the guest/login choice
// before anything else is checked.
func (s *Session) validateLocked() *ValidationError {
	if s.state.CustomerRef == "" && !s.state.IsGuest {
		return NewValidationError(CodeIdentityRequired, "sign in or continue as guest to confirm")
	}
	if s.state.SelectedDate == "" || s.state.SelectedTime == "" ||
		s.state.TreatmentID == "" || s.state.SelectedLocation == "" {
		return NewValidationError(CodeMissingSelection, "date, time, treatment and location are all required")
	}
	if s.state.IsGuest {
		if s.state.GuestName == "" || s.state.GuestEmail == "" || s.state.GuestPhone == "" {
			return NewValidationError(CodeMissingGuestInfo, "guest bookings require name, email and phone")
		}
	}
	if s.state.Address == "" || s.state.City == "" || s.state.PostalCode == 0 {
		return NewValidationError(CodeMissingAddress, "address, city and postal code are required")
	}
	if s.state.IsGroupBooking && s.state.GroupSize < 1 {
		return NewValidationError(CodeInvalidGroupSize, "group size must be at least 1")
	}
	return nil
}

// SettleAndRefresh waits out the store's eventual-consistency window, then
// invalidates and re-resolves the booked day. On success the displayed
// slot list is replaced; on failure the stale list stays up, since the
// booking itself already succeeded.
func (s *Session) SettleAndRefresh(ctx context.Context, dayKey string) {
	if s.svc.CommitSettleDelay > 0 {
		select {
		case <-time.After(s.svc.CommitSettleDelay):
		case <-ctx.Done():
			return
		}
	}
	s.RefreshDay(ctx, dayKey)
}

// RefreshDay re-resolves a day and swaps in the fresh slot list when the
// day is the one currently displayed.
func (s *Session) RefreshDay(ctx context.Context, dayKey string) {
	fresh, err := s.svc.Calendar.RefreshDay(ctx, dayKey)
	if err != nil {
		utils.GetLogger().Warn("post-booking refresh failed, keeping stale slots",
			zap.String("date", dayKey), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedDate != dayKey {
		return
	}
	if fresh != nil {
		s.slots = fresh.ByLocation
		s.event = fresh.Event
	} else {
		s.slots = nil
		s.event = nil
	}
}

// CancelBooking flips the booking to cancelled and runs the same
// settle-invalidate-refresh sequence for its day.
func (s *Session) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.svc.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := s.svc.Bookings.SetStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}

	if s.svc.CancelRefreshDelay > 0 {
		select {
		case <-time.After(s.svc.CancelRefreshDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.RefreshDay(ctx, booking.Date)
	return nil
}

// CloseConfirmation resets the selection state and defensively invalidates
// the whole visible month: the new booking can shift availability for
// neighboring days that share bookings.
func (s *Session) CloseConfirmation(ctx context.Context) {
	s.mu.Lock()
	s.state.SelectedDate = ""
	s.state.SelectedTime = ""
	s.state.SelectedLocation = ""
	s.state.TreatmentID = ""
	s.state.Duration = 0
	s.state.IsGroupBooking = false
	s.state.GroupSize = 1
	s.state.CustomerMessage = ""
	s.state.CompletedBookingID = ""
	s.state.State = StateBrowsing
	s.slots = nil
	s.event = nil
	s.mu.Unlock()

	s.svc.Calendar.Cache().ClearAll()
	s.svc.Calendar.ChangeVisibleMonth(ctx, time.Now().In(s.svc.Zone))
}

// ChangeVisibleMonth switches the calendar view, re-triggering prefetch
// for the new month.
func (s *Session) ChangeVisibleMonth(ctx context.Context, month time.Time) {
	s.svc.Calendar.ChangeVisibleMonth(ctx, month)
}
