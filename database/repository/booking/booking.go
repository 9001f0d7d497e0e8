package bookingRepo

import (
	"context"
	"time"

	"knipetak/models"
)

// BookingStore defines data access for booking records.
type BookingStore interface {
	// FindActiveByDateRange returns all non-cancelled bookings whose
	// timeslot starts within [startUTC, endUTC), deduplicated by id.
	FindActiveByDateRange(ctx context.Context, startUTC, endUTC time.Time) ([]models.Booking, error)
	// Create persists a new booking and returns the assigned id.
	Create(ctx context.Context, draft models.Booking) (string, error)
	// SetStatus updates the status of an existing booking.
	SetStatus(ctx context.Context, bookingID, status string) error
	// GetByID retrieves a booking by id.
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// ListByCustomer returns all bookings made by the given customer ref.
	ListByCustomer(ctx context.Context, customerRef string) ([]models.Booking, error)
}
