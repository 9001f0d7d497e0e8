package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	bookingRepo "knipetak/database/repository/booking"
	"knipetak/services/scheduling"
	"knipetak/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler drives the scheduling session flow over HTTP. Each
// customer walks through date, slot, details and confirmation against one
// session, resumable by id.
type BookingHandler struct {
	Manager  *scheduling.Manager
	Bookings bookingRepo.BookingStore
	Logger   *zap.Logger
}

func NewBookingHandler(manager *scheduling.Manager, bookings bookingRepo.BookingStore, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Manager: manager, Bookings: bookings, Logger: logger}
}

// OpenSession starts a fresh scheduling session.
func (h *BookingHandler) OpenSession(c *gin.Context) {
	session, err := h.Manager.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open scheduling session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// GetSession returns the current state of a session, including the slot
// list for the selected day.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session.State(),
		"slots":   session.Slots(),
		"event":   session.Event(),
	})
}

// SelectDate records a date selection, or just warms the cache when
// previewOnly is set (hover prefetch).
func (h *BookingHandler) SelectDate(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	var input struct {
		Date        string `json:"date" binding:"required"`
		PreviewOnly bool   `json:"previewOnly"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session.SelectDate(c.Request.Context(), input.Date, input.PreviewOnly)
	if input.PreviewOnly {
		c.JSON(http.StatusAccepted, gin.H{"date": input.Date})
		return
	}
	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{
		"session": session.State(),
		"slots":   session.Slots(),
		"event":   session.Event(),
	})
}

// SelectSlot records the chosen time and location within the selected day.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	var input struct {
		Time       string `json:"time" binding:"required"`
		LocationID string `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := session.SelectSlot(input.Time, input.LocationID); err != nil {
		respondValidation(c, err)
		return
	}
	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// UpdateDetails applies the booking details the customer has entered so
// far. Fields are optional so the client can send them incrementally.
func (h *BookingHandler) UpdateDetails(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	var input struct {
		IsGroupBooking *bool   `json:"isGroupBooking"`
		GroupSize      *int    `json:"groupSize"`
		TreatmentID    *string `json:"treatmentId"`
		Duration       *int    `json:"duration"`
		CustomerRef    *string `json:"customerRef"`
		Guest          *struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"guest"`
		Address *struct {
			Address    string `json:"address"`
			City       string `json:"city"`
			PostalCode int    `json:"postalCode"`
		} `json:"address"`
		CustomerMessage *string `json:"customerMessage"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if input.IsGroupBooking != nil {
		session.SetGroupMode(*input.IsGroupBooking)
	}
	if input.GroupSize != nil {
		session.SetGroupSize(*input.GroupSize)
	}
	if input.TreatmentID != nil {
		session.SetTreatment(*input.TreatmentID)
	}
	if input.Duration != nil {
		session.SetDuration(*input.Duration)
	}
	if input.CustomerRef != nil {
		session.SetCustomerRef(*input.CustomerRef)
	}
	if input.Guest != nil {
		session.SetGuestDetails(input.Guest.Name, input.Guest.Email, input.Guest.Phone)
	}
	if input.Address != nil {
		session.SetCustomerAddress(input.Address.Address, input.Address.City, input.Address.PostalCode)
	}
	if input.CustomerMessage != nil {
		session.SetCustomerMessage(*input.CustomerMessage)
	}

	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// Back steps from details entry back to slot selection.
func (h *BookingHandler) Back(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	session.Back()
	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// CancelSelection abandons the chosen slot and returns to date selection.
func (h *BookingHandler) CancelSelection(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	session.CancelSelection()
	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// Confirm commits the booking. The booking id is final on return; the
// availability refresh for the booked day runs in the background and a
// refresh failure does not affect the booking.
func (h *BookingHandler) Confirm(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}

	bookingID, err := session.Confirm(c.Request.Context())
	if err != nil {
		respondValidation(c, err)
		return
	}

	dayKey := session.State().SelectedDate
	go session.SettleAndRefresh(context.Background(), dayKey)

	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "session": session.State()})
}

// CloseConfirmation dismisses the confirmation view, resets the session
// and re-triggers prefetch for the current month.
func (h *BookingHandler) CloseConfirmation(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	session.CloseConfirmation(c.Request.Context())
	h.snapshot(session)
	c.JSON(http.StatusOK, gin.H{"session": session.State()})
}

// CloseSession discards the session entirely.
func (h *BookingHandler) CloseSession(c *gin.Context) {
	h.Manager.Close(c.Request.Context(), c.Param("sessionID"))
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// CancelBooking flips a booking to cancelled and refreshes its day.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	session, ok := h.resume(c)
	if !ok {
		return
	}
	var input struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := session.CancelBooking(c.Request.Context(), input.BookingID); err != nil {
		h.Logger.Warn("booking cancellation failed",
			zap.String("bookingId", input.BookingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": input.BookingID, "status": "cancelled"})
}

// GetBookingByID returns one booking record.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	booking, err := h.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsByCustomer returns all bookings for a customer reference.
func (h *BookingHandler) ListBookingsByCustomer(c *gin.Context) {
	bookings, err := h.Bookings.ListByCustomer(c.Request.Context(), c.Param("customerRef"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) resume(c *gin.Context) (*scheduling.Session, bool) {
	session, err := h.Manager.Resume(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduling session not found or expired"})
		return nil, false
	}
	return session, true
}

func (h *BookingHandler) snapshot(session *scheduling.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Manager.Snapshot(ctx, session); err != nil {
		h.Logger.Warn("failed to snapshot scheduling session", zap.Error(err))
	}
}

func respondValidation(c *gin.Context, err error) {
	var verr *scheduling.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		if verr.Code == scheduling.CodeIdentityRequired {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": verr.Message, "code": verr.Code})
		return
	}
	utils.GetLogger().Error("booking confirmation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm booking"})
}
