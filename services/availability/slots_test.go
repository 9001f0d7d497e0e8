package availability

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"knipetak/models"
)

func TestGenerateSlotsOpenDay(t *testing.T) {
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	window := models.WorkWindow{Start: "09:00", End: "10:00", Location: "home"}

	slots, err := GenerateSlots(window, midnight, nil, 15, 30)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	want := []string{"09:00", "09:15", "09:30", "09:45"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

// A booking 10:00-10:30 with a 15 minute travel buffer occupies 10:00-10:45.
// With a 30 minute minimum treatment, candidates from 09:45 through 10:30
// collide with it; 09:30 ends exactly at 10:00 and stays offerable, and
// 10:45 starts exactly at the buffer's end.
func TestGenerateSlotsAroundBufferedBooking(t *testing.T) {
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	window := models.WorkWindow{Start: "09:00", End: "17:00", Location: "home"}
	booked := []Interval{{
		Start: midnight.Add(10 * time.Hour),
		End:   midnight.Add(10*time.Hour + 45*time.Minute),
	}}

	slots, err := GenerateSlots(window, midnight, booked, 15, 30)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	offered := make(map[string]bool, len(slots))
	for _, s := range slots {
		offered[s] = true
	}
	for _, s := range []string{"09:45", "10:00", "10:15", "10:30"} {
		if offered[s] {
			t.Errorf("slot %s should be excluded by the buffered booking", s)
		}
	}
	for _, s := range []string{"09:00", "09:30", "10:45", "11:00", "16:45"} {
		if !offered[s] {
			t.Errorf("slot %s should be offered", s)
		}
	}
}

func TestGenerateSlotsDegenerateWindows(t *testing.T) {
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	for _, window := range []models.WorkWindow{
		{Start: "", End: "17:00"},
		{Start: "09:00", End: ""},
		{Start: "12:00", End: "12:00"},
		{Start: "17:00", End: "09:00"},
	} {
		slots, err := GenerateSlots(window, midnight, nil, 15, 30)
		if err != nil {
			t.Errorf("window %+v: unexpected error %v", window, err)
		}
		if len(slots) != 0 {
			t.Errorf("window %+v: expected no slots, got %v", window, slots)
		}
	}
}

func TestGenerateSlotsMalformedWindow(t *testing.T) {
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	window := models.WorkWindow{Start: "9am", End: "17:00"}

	_, err := GenerateSlots(window, midnight, nil, 15, 30)
	var merr *MalformedTimeError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedTimeError, got %v", err)
	}
	if merr.Value != "9am" {
		t.Errorf("error value = %q, want 9am", merr.Value)
	}
}

// The last candidates of a window are offered even when the minimum
// treatment would run past the window's end; the customer may want a short
// treatment there and longer ones are re-validated at confirm time.
func TestGenerateSlotsTailOfWindow(t *testing.T) {
	midnight := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	window := models.WorkWindow{Start: "16:00", End: "17:00", Location: "home"}

	slots, err := GenerateSlots(window, midnight, nil, 15, 30)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	want := []string{"16:00", "16:15", "16:30", "16:45"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}
