package models

// WorkWindow is one contiguous offer window at a single location on a single day.
// Start and end are local wall-clock times in "HH:MM" format.
type WorkWindow struct {
	Start    string `bson:"start" json:"start"`
	End      string `bson:"end" json:"end"`
	Location string `bson:"location" json:"location"` // location id
}

// WorkHours groups the work windows configured for one day.
// An empty TimeSlots list means the day is off.
type WorkHours struct {
	TimeSlots []WorkWindow `bson:"timeSlots" json:"timeSlots"`
}

// EventMarker tags an override day as occupied by an event. When present,
// no slots are offered for that day regardless of configured work windows.
type EventMarker struct {
	Name     string `bson:"name" json:"name"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
}

// DayOverride replaces the default weekly schedule for a single date,
// including the all-day-off case (empty work hours).
type DayOverride struct {
	Date      string       `bson:"date" json:"date"` // day key, "YYYY-MM-DD"
	WorkHours WorkHours    `bson:"workhours" json:"workhours"`
	Event     *EventMarker `bson:"event,omitempty" json:"event,omitempty"`
}

// WeeklySchedule maps lowercase English weekday names ("monday" .. "sunday")
// to the default work hours for that weekday.
type WeeklySchedule map[string]WorkHours
