package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout is the canonical "YYYY-MM-DD" day identifier format.
const DayKeyLayout = "2006-01-02"

// ParseClock parses a local wall-clock "HH:MM" string into minutes from
// midnight. Malformed input yields a MalformedTimeError.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &MalformedTimeError{Value: s}
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &MalformedTimeError{Value: s}
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &MalformedTimeError{Value: s}
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, &MalformedTimeError{Value: s}
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayBounds computes the UTC instants of midnight and the following
// midnight for the given day key in the given time zone. The offset is
// resolved for that specific date, so daylight-saving transitions produce
// 23- and 25-hour days rather than a fixed-offset approximation.
func DayBounds(dayKey string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DayKeyLayout, dayKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid day key %q: %w", dayKey, err)
	}
	start := day
	end := day.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}

// DayKey renders the instant as a day key in the given time zone.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// Weekday returns the lowercase English weekday name of the day key in the
// given time zone, matching the keys of a WeeklySchedule.
func Weekday(dayKey string, loc *time.Location) (string, error) {
	day, err := time.ParseInLocation(DayKeyLayout, dayKey, loc)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", dayKey, err)
	}
	return strings.ToLower(day.Weekday().String()), nil
}

// Interval is a half-open absolute time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}
