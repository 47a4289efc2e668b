package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestGestureLog_AppendMostRecentFirst(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), 0)

	log.Append("wave", nil)
	log.Append("shake", nil)

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Gesture != "shake" || entries[1].Gesture != "wave" {
		t.Errorf("Expected [shake wave], got [%s %s]", entries[0].Gesture, entries[1].Gesture)
	}
}

func TestGestureLog_EvictsOldest(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), DefaultCapacity)

	for i := 1; i <= 11; i++ {
		log.Append(fmt.Sprintf("g%d", i), nil)
	}

	entries := log.Entries()
	if len(entries) != 10 {
		t.Fatalf("Expected 10 entries, got %d", len(entries))
	}
	if entries[0].Gesture != "g11" {
		t.Errorf("Expected g11 at the head, got %s", entries[0].Gesture)
	}
	if entries[9].Gesture != "g2" {
		t.Errorf("Expected g2 at the tail, got %s", entries[9].Gesture)
	}
	for _, e := range entries {
		if e.Gesture == "g1" {
			t.Error("Expected g1 to be evicted")
		}
	}
}

func TestGestureLog_NeverExceedsCapacity(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), 0)

	for i := 0; i < 57; i++ {
		log.Append("flick", nil)
		if log.Len() > log.Capacity() {
			t.Fatalf("Log grew to %d entries", log.Len())
		}
	}
	if log.Len() != DefaultCapacity {
		t.Errorf("Expected %d entries, got %d", DefaultCapacity, log.Len())
	}
}

func TestGestureLog_Intensity(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), 0)

	high := 1.7
	mid := 0.6
	log.Append("wave", nil)
	log.Append("flick", &high)
	log.Append("tilt_left", &mid)

	entries := log.Entries()
	if entries[2].Intensity != 1.0 {
		t.Errorf("Expected default intensity 1.0, got %v", entries[2].Intensity)
	}
	if entries[1].Intensity != 1.0 {
		t.Errorf("Expected clamped intensity 1.0, got %v", entries[1].Intensity)
	}
	if entries[0].Intensity != 0.6 {
		t.Errorf("Expected intensity 0.6, got %v", entries[0].Intensity)
	}
}

func TestGestureLog_Timestamp(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 11, 29, 9, 30, 15, 0, time.Local))
	log := NewGestureLog(clk, 0)

	entry := log.Append("rotate_cw", nil)
	if entry.Timestamp != "9:30:15 AM" {
		t.Errorf("Expected timestamp 9:30:15 AM, got %s", entry.Timestamp)
	}
}

func TestGestureLog_Clear(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), 3)

	log.Append("wave", nil)
	log.Append("shake", nil)
	log.Clear()

	if log.Len() != 0 || len(log.Entries()) != 0 {
		t.Errorf("Expected empty log after clear, got %d entries", log.Len())
	}

	log.Append("flick", nil)
	entries := log.Entries()
	if len(entries) != 1 || entries[0].Gesture != "flick" {
		t.Errorf("Expected [flick] after clear, got %+v", entries)
	}
}

func TestGestureLog_EntriesIsACopy(t *testing.T) {
	log := NewGestureLog(clock.NewMock(), 0)
	log.Append("wave", nil)

	entries := log.Entries()
	entries[0].Gesture = "tampered"

	if log.Entries()[0].Gesture != "wave" {
		t.Error("Expected Entries to return a copy")
	}
}
