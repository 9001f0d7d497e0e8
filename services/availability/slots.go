package availability

import (
	"time"

	"knipetak/models"
)

// GenerateSlots enumerates every stepMinutes-aligned start time within the
// window and keeps those whose tentative occupancy span of
// minDurationMinutes does not overlap any booked interval. The booked
// intervals are absolute and already expanded by the travel buffer.
//
// An empty start or end, or start == end, yields an empty list without
// error. A non-empty but unparsable start or end yields a
// MalformedTimeError; the caller drops that window.
func GenerateSlots(window models.WorkWindow, dayMidnight time.Time, booked []Interval, stepMinutes, minDurationMinutes int) ([]string, error) {
	if window.Start == "" || window.End == "" {
		return nil, nil
	}
	startMin, err := ParseClock(window.Start)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(window.End)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, nil
	}

	var slots []string
	for m := startMin; m < endMin; m += stepMinutes {
		candidate := Interval{
			Start: dayMidnight.Add(time.Duration(m) * time.Minute),
			End:   dayMidnight.Add(time.Duration(m+minDurationMinutes) * time.Minute),
		}
		if overlapsAny(candidate, booked) {
			continue
		}
		slots = append(slots, FormatClock(m))
	}
	return slots, nil
}

func overlapsAny(candidate Interval, booked []Interval) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
