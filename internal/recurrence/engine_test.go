package recurrence

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return parsed
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed := date(t, value)
	return &parsed
}

func quietEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func assertDates(t *testing.T, occurrences []Occurrence, want ...string) {
	t.Helper()
	if len(occurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %v", len(want), len(occurrences), occurrences)
	}
	for i, occurrence := range occurrences {
		if got := occurrence.Date.Format("2006-01-02"); got != want[i] {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestEngine_Expand_Weekly(t *testing.T) {
	t.Parallel()

	// Monday origin with a finite end on the fourth Monday.
	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternWeekly,
		EndsOn:    datePtr(t, "2024-01-22"),
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-08", "2024-01-15", "2024-01-22")
}

func TestEngine_Expand_Biweekly(t *testing.T) {
	t.Parallel()

	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternBiweekly,
		EndsOn:    datePtr(t, "2024-02-01"),
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-15", "2024-01-29")
}

func TestEngine_Expand_Daily(t *testing.T) {
	t.Parallel()

	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternDaily,
		EndsOn:    datePtr(t, "2024-01-04"),
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-02", "2024-01-03", "2024-01-04")
}

func TestEngine_Expand_MonthlySkipsShortMonths(t *testing.T) {
	t.Parallel()

	// Origin on the 31st: February and April have no matching day, so the
	// series silently skips them.
	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-31"),
		Recurring: true,
		Pattern:   PatternMonthly,
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-05-31"))

	assertDates(t, occurrences, "2024-03-31", "2024-05-31")
}

func TestEngine_Expand_InfiniteSeriesBoundedByWindow(t *testing.T) {
	t.Parallel()

	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternWeekly,
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-01-31"))

	assertDates(t, occurrences, "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29")
}

func TestEngine_Expand_WindowStartClipsEarlierOccurrences(t *testing.T) {
	t.Parallel()

	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternWeekly,
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-10"), date(t, "2024-01-31"))

	assertDates(t, occurrences, "2024-01-15", "2024-01-22", "2024-01-29")
}

func TestEngine_Expand_RealClassSuppressesVirtualOccurrence(t *testing.T) {
	t.Parallel()

	classes := []Class{
		{
			ID:          "series-1",
			RoomID:      "room-1",
			Date:        date(t, "2024-01-01"),
			StartMinute: 9 * 60,
			Recurring:   true,
			Pattern:     PatternWeekly,
			EndsOn:      datePtr(t, "2024-01-22"),
		},
		{
			ID:          "override-1",
			RoomID:      "room-1",
			Date:        date(t, "2024-01-08"),
			StartMinute: 9 * 60,
			Recurring:   false,
		},
	}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-15", "2024-01-22")
}

func TestEngine_Expand_SuppressionRequiresSameRoomAndStart(t *testing.T) {
	t.Parallel()

	classes := []Class{
		{
			ID:          "series-1",
			RoomID:      "room-1",
			Date:        date(t, "2024-01-01"),
			StartMinute: 9 * 60,
			Recurring:   true,
			Pattern:     PatternWeekly,
			EndsOn:      datePtr(t, "2024-01-08"),
		},
		{
			ID:          "other-room",
			RoomID:      "room-2",
			Date:        date(t, "2024-01-08"),
			StartMinute: 9 * 60,
			Recurring:   false,
		},
		{
			ID:          "other-start",
			RoomID:      "room-1",
			Date:        date(t, "2024-01-08"),
			StartMinute: 10 * 60,
			Recurring:   false,
		},
	}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-08")
}

func TestEngine_Expand_SkipsMalformedRecordAndContinues(t *testing.T) {
	t.Parallel()

	classes := []Class{
		{
			ID:        "broken-1",
			RoomID:    "room-1",
			Recurring: true,
			Pattern:   PatternWeekly,
		},
		{
			ID:        "broken-2",
			RoomID:    "room-1",
			Date:      date(t, "2024-01-01"),
			Recurring: true,
			Pattern:   PatternUnspecified,
		},
		{
			ID:        "healthy",
			RoomID:    "room-1",
			Date:      date(t, "2024-01-01"),
			Recurring: true,
			Pattern:   PatternWeekly,
			EndsOn:    datePtr(t, "2024-01-08"),
		},
	}

	occurrences := quietEngine().Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	assertDates(t, occurrences, "2024-01-08")
	if occurrences[0].ClassID != "healthy" {
		t.Fatalf("expected occurrence for healthy class, got %s", occurrences[0].ClassID)
	}
}

func TestEngine_Expand_Deterministic(t *testing.T) {
	t.Parallel()

	classes := []Class{
		{ID: "b", RoomID: "room-1", Date: date(t, "2024-01-01"), Recurring: true, Pattern: PatternDaily, EndsOn: datePtr(t, "2024-01-05")},
		{ID: "a", RoomID: "room-2", Date: date(t, "2024-01-01"), Recurring: true, Pattern: PatternDaily, EndsOn: datePtr(t, "2024-01-05")},
	}

	engine := quietEngine()
	first := engine.Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))
	second := engine.Expand(classes, date(t, "2024-01-01"), date(t, "2024-04-01"))

	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d and %d occurrences", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("occurrence %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
	for i := 0; i+1 < len(first); i++ {
		if first[i].Date.After(first[i+1].Date) {
			t.Fatalf("occurrences not ordered by date at index %d", i)
		}
		if first[i].Date.Equal(first[i+1].Date) && first[i].ClassID >= first[i+1].ClassID {
			t.Fatalf("occurrences not ordered by class id at index %d", i)
		}
	}
}

func TestEngine_Expand_EmptyWindow(t *testing.T) {
	t.Parallel()

	classes := []Class{{
		ID:        "class-1",
		RoomID:    "room-1",
		Date:      date(t, "2024-01-01"),
		Recurring: true,
		Pattern:   PatternDaily,
	}}

	occurrences := quietEngine().Expand(classes, date(t, "2024-02-01"), date(t, "2024-01-01"))

	if len(occurrences) != 0 {
		t.Fatalf("expected no occurrences for inverted window, got %d", len(occurrences))
	}
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value   string
		want    Pattern
		wantErr bool
	}{
		{value: "daily", want: PatternDaily},
		{value: "weekly", want: PatternWeekly},
		{value: "biweekly", want: PatternBiweekly},
		{value: "monthly", want: PatternMonthly},
		{value: "yearly", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePattern(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)
	start, end := Window(now, 3)

	if got := start.Format("2006-01-02"); got != "2024-03-14" {
		t.Fatalf("expected window start 2024-03-14, got %s", got)
	}
	if got := end.Format("2006-01-02"); got != "2024-06-14" {
		t.Fatalf("expected window end 2024-06-14, got %s", got)
	}

	start, end = Window(now, 0)
	if !end.Equal(start.AddDate(0, 3, 0)) {
		t.Fatalf("expected default three month window, got %v..%v", start, end)
	}
}
