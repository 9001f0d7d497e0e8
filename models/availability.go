package models

// LocationAvailability is the set of offerable start times within one work
// window. Slots are local wall-clock times in "HH:MM" format.
type LocationAvailability struct {
	LocationID string     `json:"location"`
	Window     WorkWindow `json:"workHours"`
	Slots      []string   `json:"availableSlots"`
}

// DayAvailability is the resolved availability for one day. Windows that
// produced zero slots are omitted from ByLocation rather than shown empty.
type DayAvailability struct {
	ByLocation []LocationAvailability `json:"availabilityByLocation"`
	Event      *EventMarker           `json:"eventDetails,omitempty"`
}
