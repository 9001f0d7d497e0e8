package handlers

import (
	"net/http"
	"time"

	"knipetak/services/availability"
	"knipetak/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the calendar surface: day lookups, month
// prefetch, and load status.
type AvailabilityHandler struct {
	Calendar *availability.Calendar
	Zone     *time.Location
}

func NewAvailabilityHandler(calendar *availability.Calendar, zone *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{Calendar: calendar, Zone: zone}
}

// GetDayHandler resolves one day's availability. A day with no open slots
// returns an empty byLocation list, never an error.
func (h *AvailabilityHandler) GetDayHandler(c *gin.Context) {
	dayKey := c.Param("date")
	if _, err := time.ParseInLocation(availability.DayKeyLayout, dayKey, h.Zone); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "date must be formatted YYYY-MM-DD")
		return
	}

	day := h.Calendar.Day(c.Request.Context(), dayKey)
	if day == nil {
		c.JSON(http.StatusOK, gin.H{"date": dayKey, "byLocation": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":       dayKey,
		"byLocation": day.ByLocation,
		"event":      day.Event,
	})
}

// PrefetchMonthHandler kicks off a prefetch pass for the given month
// ("YYYY-MM", defaulting to the current month) and returns immediately.
func (h *AvailabilityHandler) PrefetchMonthHandler(c *gin.Context) {
	month := time.Now().In(h.Zone)
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, h.Zone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted YYYY-MM"})
			return
		}
		month = parsed
	}

	h.Calendar.ChangeVisibleMonth(c.Request.Context(), month)
	c.JSON(http.StatusAccepted, gin.H{"month": month.Format("2006-01")})
}

// StatusHandler reports whether the visible month has enough data to
// render, plus the currently cached days.
func (h *AvailabilityHandler) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"initialLoadDone": h.Calendar.InitialLoadDone(),
		"cachedDays":      len(h.Calendar.Snapshot()),
	})
}

// RefreshDayHandler forces re-resolution of one day, bypassing the cache.
func (h *AvailabilityHandler) RefreshDayHandler(c *gin.Context) {
	dayKey := c.Param("date")
	if _, err := time.ParseInLocation(availability.DayKeyLayout, dayKey, h.Zone); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "date must be formatted YYYY-MM-DD")
		return
	}

	day, err := h.Calendar.RefreshDay(c.Request.Context(), dayKey)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh availability", "date": dayKey})
		return
	}
	if day == nil {
		c.JSON(http.StatusOK, gin.H{"date": dayKey, "byLocation": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": dayKey, "byLocation": day.ByLocation, "event": day.Event})
}
