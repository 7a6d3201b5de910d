package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// Occurrence is a single schedulable instance in a room on a date: either a
// persisted class or a virtual occurrence derived from a recurring series.
// Virtual occurrences carry the origin class id as ClassID.
type Occurrence struct {
	ClassID     string
	RoomID      string
	Date        time.Time
	StartMinute int
	EndMinute   int
	Virtual     bool
}

// Slot is the candidate placement being validated: the target date, room, and
// half-open time interval. ExcludeClassID removes the class being updated
// (and every virtual occurrence of its series) from consideration.
type Slot struct {
	RoomID         string
	Date           time.Time
	StartMinute    int
	EndMinute      int
	ExcludeClassID string
}

// Conflict details an overlapping occurrence that callers surface to users.
type Conflict struct {
	ClassID     string
	RoomID      string
	Date        time.Time
	StartMinute int
	EndMinute   int
	Virtual     bool
}

// ErrInvalidClock indicates a wall-clock value outside HH:MM form.
var ErrInvalidClock = errors.New("scheduler: invalid clock value")

// DetectConflicts returns every occurrence in the same room on the same date
// whose time interval overlaps the candidate slot. Intervals are half-open:
// a class ending exactly when another starts does not conflict. The function
// is pure; callers supply all candidate occurrences.
func DetectConflicts(existing []Occurrence, slot Slot) []Conflict {
	date := normalizeDate(slot.Date)

	var conflicts []Conflict
	for _, occurrence := range existing {
		if occurrence.RoomID != slot.RoomID {
			continue
		}
		if slot.ExcludeClassID != "" && occurrence.ClassID == slot.ExcludeClassID {
			continue
		}
		if !normalizeDate(occurrence.Date).Equal(date) {
			continue
		}
		if !Overlaps(slot.StartMinute, slot.EndMinute, occurrence.StartMinute, occurrence.EndMinute) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			ClassID:     occurrence.ClassID,
			RoomID:      occurrence.RoomID,
			Date:        normalizeDate(occurrence.Date),
			StartMinute: occurrence.StartMinute,
			EndMinute:   occurrence.EndMinute,
			Virtual:     occurrence.Virtual,
		})
	}
	return conflicts
}

// HasConflict reports whether the candidate slot overlaps any occurrence.
func HasConflict(existing []Occurrence, slot Slot) bool {
	return len(DetectConflicts(existing, slot)) > 0
}

// Overlaps tests half-open interval overlap on minutes of the day.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ParseClock converts an HH:MM wall-clock value into minutes since midnight.
func ParseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatClock renders minutes since midnight as an HH:MM wall-clock value.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func normalizeDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
