// Package booking derives bookable time windows from clinic hours and drives
// the pick-a-slot, check, confirm booking flow.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

const (
	DateLayout = "2006-01-02"
	// DefaultSlotMinutes applies when neither caller nor clinic sets a duration.
	DefaultSlotMinutes = 30
)

// SlotMinutes picks the slot length: override when positive, then the
// clinic's own duration, then DefaultSlotMinutes.
func SlotMinutes(clinic marketplace.Clinic, override int) int {
	switch {
	case override > 0:
		return override
	case clinic.SlotDuration > 0:
		return clinic.SlotDuration
	default:
		return DefaultSlotMinutes
	}
}

// TimeSlot is one bookable window. Start and End are zero-padded "HH:MM".
type TimeSlot struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
}

type DayKind string

const (
	Weekdays DayKind = "weekdays"
	Weekends DayKind = "weekends"
)

// Classify puts Saturday and Sunday in Weekends and every other day in Weekdays.
func Classify(date time.Time) DayKind {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekends
	default:
		return Weekdays
	}
}

// HoursFor returns the open/close pair that applies on date, or nil when the
// clinic has none configured for that part of the week.
func HoursFor(hours marketplace.OperatingHours, date time.Time) *marketplace.DayHours {
	var h *marketplace.DayHours
	if Classify(date) == Weekends {
		h = hours.Weekends
	} else {
		h = hours.Weekdays
	}
	if h == nil || h.Open == "" || h.Close == "" {
		return nil
	}
	return h
}

// Plan lists the slots of slotMinutes that fit entirely inside the day's
// opening hours. A trailing remainder shorter than slotMinutes is dropped.
// No hours, unparseable hours or a non-positive duration give an empty list.
func Plan(hours marketplace.OperatingHours, slotMinutes int, date time.Time) []TimeSlot {
	if slotMinutes <= 0 {
		return nil
	}
	h := HoursFor(hours, date)
	if h == nil {
		return nil
	}
	open, err := ParseClock(h.Open)
	if err != nil {
		return nil
	}
	closing, err := ParseClock(h.Close)
	if err != nil || closing <= open {
		return nil
	}

	slots := make([]TimeSlot, 0, (closing-open)/slotMinutes)
	for cursor := open; cursor+slotMinutes <= closing; cursor += slotMinutes {
		end := cursor + slotMinutes
		slots = append(slots, TimeSlot{
			Start:   FormatClock(cursor),
			End:     FormatClock(end),
			Display: displayClock(cursor) + " - " + displayClock(end),
		})
	}
	return slots
}

// ParseClock turns "HH:MM" into minutes after midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("clock %q: hour: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("clock %q: minute: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func displayClock(minutes int) string {
	return time.Date(2000, 1, 1, 0, minutes, 0, 0, time.UTC).Format("3:04 PM")
}
