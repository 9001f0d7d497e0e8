package models

// ReminderPayload is the queued message for an appointment reminder.
type ReminderPayload struct {
	BookingID     string `json:"bookingId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Date          string `json:"date"` // day key
	Time          string `json:"time"` // "HH:MM" local
	Title         string `json:"title"`
	Body          string `json:"body"`
}
