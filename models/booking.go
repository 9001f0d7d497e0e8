package models

import "time"

// Booking statuses. Cancellation flips the status, it never deletes the record.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// TimeslotRange is the absolute occupancy window of a booking.
type TimeslotRange struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Booking represents a committed booking record.
type Booking struct {
	ID              string           `bson:"id" json:"id"`
	CustomerRef     string           `bson:"customerRef" json:"customerRef"`
	CustomerName    string           `bson:"customerName" json:"customerName"`
	CustomerEmail   string           `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone   string           `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Date            string           `bson:"date" json:"date"` // day key, "YYYY-MM-DD"
	Duration        int              `bson:"duration" json:"duration"` // total minutes
	Location        CustomerLocation `bson:"location" json:"location"`
	Price           float64          `bson:"price" json:"price"`
	Status          string           `bson:"status" json:"status"`
	CustomerMessage string           `bson:"customerMessage,omitempty" json:"customerMessage,omitempty"`
	Timeslot        TimeslotRange    `bson:"timeslot" json:"timeslot"`
	TreatmentID     string           `bson:"treatmentId" json:"treatmentId"`
	IsGuest         bool             `bson:"isGuestBooking" json:"isGuestBooking"`
	GroupSize       int              `bson:"groupSize,omitempty" json:"groupSize,omitempty"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
}

// Active reports whether the booking still occupies its timeslot.
func (b Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}
