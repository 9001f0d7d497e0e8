package handlers

import (
	"net/http"
	"time"

	scheduleRepo "knipetak/database/repository/schedule"
	"knipetak/models"
	"knipetak/services/availability"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler exposes the provider-facing schedule administration:
// the default weekly schedule and per-day overrides. Writes invalidate
// the affected cached days so the calendar re-resolves them.
type ScheduleHandler struct {
	Schedule scheduleRepo.ScheduleStore
	Calendar *availability.Calendar
	Zone     *time.Location
}

func NewScheduleHandler(schedule scheduleRepo.ScheduleStore, calendar *availability.Calendar, zone *time.Location) *ScheduleHandler {
	return &ScheduleHandler{Schedule: schedule, Calendar: calendar, Zone: zone}
}

// GetDefaultWeeklyHandler returns the default weekly schedule.
func (h *ScheduleHandler) GetDefaultWeeklyHandler(c *gin.Context) {
	schedule, err := h.Schedule.GetDefaultWeekly(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load default schedule"})
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no default schedule configured"})
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// SetDefaultWeeklyHandler replaces the default weekly schedule. All cached
// days are dropped since every day without an override depends on it.
func (h *ScheduleHandler) SetDefaultWeeklyHandler(c *gin.Context) {
	var schedule models.WeeklySchedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Schedule.SetDefaultWeekly(c.Request.Context(), schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save default schedule"})
		return
	}
	h.Calendar.Cache().ClearAll()
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// SetOverrideHandler creates or replaces a day override and invalidates
// that day's cached availability.
func (h *ScheduleHandler) SetOverrideHandler(c *gin.Context) {
	var override models.DayOverride
	if err := c.ShouldBindJSON(&override); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := time.ParseInLocation(availability.DayKeyLayout, override.Date, h.Zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}
	if err := h.Schedule.SetOverride(c.Request.Context(), override); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save override"})
		return
	}
	h.Calendar.Invalidate(override.Date)
	c.JSON(http.StatusOK, gin.H{"status": "saved", "date": override.Date})
}

// DeleteOverrideHandler removes a day override, reverting the day to the
// default weekly schedule.
func (h *ScheduleHandler) DeleteOverrideHandler(c *gin.Context) {
	dayKey := c.Param("date")
	if _, err := time.ParseInLocation(availability.DayKeyLayout, dayKey, h.Zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
		return
	}
	if err := h.Schedule.DeleteOverride(c.Request.Context(), dayKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete override"})
		return
	}
	h.Calendar.Invalidate(dayKey)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "date": dayKey})
}

// ListOverridesHandler returns all overrides in an inclusive day-key
// range, defaulting to the current month.
func (h *ScheduleHandler) ListOverridesHandler(c *gin.Context) {
	now := time.Now().In(h.Zone)
	from := c.DefaultQuery("from", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Zone).Format(availability.DayKeyLayout))
	to := c.DefaultQuery("to", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Zone).AddDate(0, 1, -1).Format(availability.DayKeyLayout))

	overrides, err := h.Schedule.ListOverrides(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "overrides": overrides})
}
