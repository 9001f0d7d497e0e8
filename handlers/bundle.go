package handlers

// HandlerBundle groups the handler sets the router needs, assembled once
// in main.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Schedule     *ScheduleHandler
	Catalog      *CatalogHandler
}
