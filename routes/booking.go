package routes

import (
	"knipetak/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the scheduling flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/session", hb.Booking.OpenSession)
		booking.GET("/session/:sessionID", hb.Booking.GetSession)
		booking.PUT("/session/:sessionID/date", hb.Booking.SelectDate)
		booking.PUT("/session/:sessionID/slot", hb.Booking.SelectSlot)
		booking.PUT("/session/:sessionID/details", hb.Booking.UpdateDetails)
		booking.POST("/session/:sessionID/back", hb.Booking.Back)
		booking.DELETE("/session/:sessionID/slot", hb.Booking.CancelSelection)
		booking.POST("/session/:sessionID/confirm", hb.Booking.Confirm)
		booking.POST("/session/:sessionID/close-confirmation", hb.Booking.CloseConfirmation)
		booking.POST("/session/:sessionID/cancel-booking", hb.Booking.CancelBooking)
		booking.DELETE("/session/:sessionID", hb.Booking.CloseSession)

		booking.GET("/bookings/:id", hb.Booking.GetBookingByID)
		booking.GET("/customers/:customerRef/bookings", hb.Booking.ListBookingsByCustomer)
	}
}
