package scheduleRepo

import (
	"context"

	"knipetak/models"
)

// ScheduleStore defines data access for the provider's work-hour schedule.
// Absence (no override for a date, no default document at all) is reported
// as a nil result with a nil error, not as an error.
type ScheduleStore interface {
	// GetOverride retrieves the day override for the given day key, if any.
	GetOverride(ctx context.Context, dayKey string) (*models.DayOverride, error)
	// GetDefaultWeekly retrieves the default weekly schedule document.
	GetDefaultWeekly(ctx context.Context) (models.WeeklySchedule, error)
	// SetDefaultWeekly replaces the default weekly schedule.
	SetDefaultWeekly(ctx context.Context, schedule models.WeeklySchedule) error
	// SetOverride creates or replaces the override for the given day key.
	SetOverride(ctx context.Context, override models.DayOverride) error
	// DeleteOverride removes the override for the given day key.
	DeleteOverride(ctx context.Context, dayKey string) error
	// ListOverrides returns all overrides with day keys in [from, to].
	ListOverrides(ctx context.Context, from, to string) ([]models.DayOverride, error)
}
