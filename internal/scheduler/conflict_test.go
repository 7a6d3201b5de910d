package scheduler

import (
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return parsed
}

func minutes(t *testing.T, value string) int {
	t.Helper()
	minute, err := ParseClock(value)
	if err != nil {
		t.Fatalf("failed to parse clock %q: %v", value, err)
	}
	return minute
}

func occurrence(t *testing.T, classID, roomID, date, start, end string) Occurrence {
	t.Helper()
	return Occurrence{
		ClassID:     classID,
		RoomID:      roomID,
		Date:        day(t, date),
		StartMinute: minutes(t, start),
		EndMinute:   minutes(t, end),
	}
}

func TestDetectConflicts_OverlapIsConflict(t *testing.T) {
	t.Parallel()

	existing := []Occurrence{occurrence(t, "class-1", "room-1", "2024-01-08", "10:00", "11:00")}
	slot := Slot{
		RoomID:      "room-1",
		Date:        day(t, "2024-01-08"),
		StartMinute: minutes(t, "09:00"),
		EndMinute:   minutes(t, "10:30"),
	}

	conflicts := DetectConflicts(existing, slot)
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %d", len(conflicts))
	}
	if conflicts[0].ClassID != "class-1" {
		t.Fatalf("expected conflict with class-1, got %s", conflicts[0].ClassID)
	}
	if got := FormatClock(conflicts[0].StartMinute); got != "10:00" {
		t.Fatalf("expected conflicting start 10:00, got %s", got)
	}
}

func TestDetectConflicts_BackToBackIsNotConflict(t *testing.T) {
	t.Parallel()

	existing := []Occurrence{
		occurrence(t, "before", "room-1", "2024-01-08", "08:00", "09:00"),
		occurrence(t, "after", "room-1", "2024-01-08", "10:00", "11:00"),
	}
	slot := Slot{
		RoomID:      "room-1",
		Date:        day(t, "2024-01-08"),
		StartMinute: minutes(t, "09:00"),
		EndMinute:   minutes(t, "10:00"),
	}

	if HasConflict(existing, slot) {
		t.Fatal("back-to-back classes must not conflict")
	}
}

func TestDetectConflicts_DifferentRoomNeverConflicts(t *testing.T) {
	t.Parallel()

	existing := []Occurrence{occurrence(t, "class-1", "room-2", "2024-01-08", "09:00", "10:00")}
	slot := Slot{
		RoomID:      "room-1",
		Date:        day(t, "2024-01-08"),
		StartMinute: minutes(t, "09:00"),
		EndMinute:   minutes(t, "10:00"),
	}

	if HasConflict(existing, slot) {
		t.Fatal("identical times in different rooms must not conflict")
	}
}

func TestDetectConflicts_DifferentDateNeverConflicts(t *testing.T) {
	t.Parallel()

	existing := []Occurrence{occurrence(t, "class-1", "room-1", "2024-01-09", "09:00", "10:00")}
	slot := Slot{
		RoomID:      "room-1",
		Date:        day(t, "2024-01-08"),
		StartMinute: minutes(t, "09:00"),
		EndMinute:   minutes(t, "10:00"),
	}

	if HasConflict(existing, slot) {
		t.Fatal("occurrences on another date must not conflict")
	}
}

func TestDetectConflicts_ExcludeIDSkipsOwnClass(t *testing.T) {
	t.Parallel()

	existing := []Occurrence{occurrence(t, "class-1", "room-1", "2024-01-08", "09:00", "10:00")}
	slot := Slot{
		RoomID:         "room-1",
		Date:           day(t, "2024-01-08"),
		StartMinute:    minutes(t, "09:00"),
		EndMinute:      minutes(t, "10:00"),
		ExcludeClassID: "class-1",
	}

	if HasConflict(existing, slot) {
		t.Fatal("a class must never conflict with itself")
	}
}

func TestDetectConflicts_ExcludeIDSkipsVirtualOccurrencesOfSeries(t *testing.T) {
	t.Parallel()

	virtual := occurrence(t, "series-1", "room-1", "2024-01-08", "09:00", "10:00")
	virtual.Virtual = true
	slot := Slot{
		RoomID:         "room-1",
		Date:           day(t, "2024-01-08"),
		StartMinute:    minutes(t, "09:30"),
		EndMinute:      minutes(t, "10:30"),
		ExcludeClassID: "series-1",
	}

	if HasConflict([]Occurrence{virtual}, slot) {
		t.Fatal("virtual occurrences of the excluded series must be skipped")
	}
}

func TestDetectConflicts_VirtualOccurrenceConflicts(t *testing.T) {
	t.Parallel()

	virtual := occurrence(t, "series-1", "room-1", "2024-01-08", "09:00", "10:00")
	virtual.Virtual = true
	slot := Slot{
		RoomID:      "room-1",
		Date:        day(t, "2024-01-08"),
		StartMinute: minutes(t, "09:30"),
		EndMinute:   minutes(t, "10:30"),
	}

	conflicts := DetectConflicts([]Occurrence{virtual}, slot)
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %d", len(conflicts))
	}
	if !conflicts[0].Virtual {
		t.Fatal("expected conflict to be flagged virtual")
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd int
		want                           bool
	}{
		{name: "partial overlap", aStart: 540, aEnd: 630, bStart: 600, bEnd: 660, want: true},
		{name: "containment", aStart: 540, aEnd: 720, bStart: 600, bEnd: 660, want: true},
		{name: "identical", aStart: 540, aEnd: 600, bStart: 540, bEnd: 600, want: true},
		{name: "back to back", aStart: 540, aEnd: 600, bStart: 600, bEnd: 660, want: false},
		{name: "disjoint", aStart: 540, aEnd: 600, bStart: 720, bEnd: 780, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			forward := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			backward := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd)
			if forward != backward {
				t.Fatalf("overlap must be symmetric: forward=%v backward=%v", forward, backward)
			}
			if forward != tc.want {
				t.Fatalf("expected overlap=%v, got %v", tc.want, forward)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	minute, err := ParseClock("15:04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minute != 15*60+4 {
		t.Fatalf("expected 904 minutes, got %d", minute)
	}

	for _, bad := range []string{"", "25:00", "09:61", "9am", "09-30"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}

	if got := FormatClock(9 * 60); got != "09:00" {
		t.Fatalf("expected 09:00, got %s", got)
	}
}
