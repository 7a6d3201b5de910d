package recurrence

import (
	"errors"
	"log/slog"
	"sort"
	"time"
)

// Pattern represents supported recurrence intervals for a class series.
type Pattern int

const (
	// PatternUnspecified indicates the recurrence pattern is not set.
	PatternUnspecified Pattern = iota
	// PatternDaily generates an occurrence on every day within the range.
	PatternDaily
	// PatternWeekly generates occurrences on the origin's weekday.
	PatternWeekly
	// PatternBiweekly generates occurrences on the origin's weekday every
	// second week counted from the origin date.
	PatternBiweekly
	// PatternMonthly generates occurrences on the origin's day of month.
	// Months without that day produce no occurrence.
	PatternMonthly
)

// ErrInvalidPattern indicates the recurrence pattern is not supported.
var ErrInvalidPattern = errors.New("recurrence: invalid pattern")

// ParsePattern converts the stored pattern label into a Pattern.
func ParsePattern(value string) (Pattern, error) {
	switch value {
	case "daily":
		return PatternDaily, nil
	case "weekly":
		return PatternWeekly, nil
	case "biweekly":
		return PatternBiweekly, nil
	case "monthly":
		return PatternMonthly, nil
	default:
		return PatternUnspecified, ErrInvalidPattern
	}
}

// String returns the stored label for the pattern.
func (p Pattern) String() string {
	switch p {
	case PatternDaily:
		return "daily"
	case PatternWeekly:
		return "weekly"
	case PatternBiweekly:
		return "biweekly"
	case PatternMonthly:
		return "monthly"
	default:
		return "unspecified"
	}
}

// Class is the projection of a persisted class record that the engine needs.
// Date is the origin calendar date at midnight UTC. EndsOn is nil for an
// infinite series; otherwise it is the inclusive final date of the series.
type Class struct {
	ID          string
	RoomID      string
	Date        time.Time
	StartMinute int
	Recurring   bool
	Pattern     Pattern
	EndsOn      *time.Time
}

// Occurrence is a derived, non-persisted instance of a recurring class. It is
// identified by the (ClassID, Date) pair; no synthetic string key exists.
type Occurrence struct {
	ClassID string
	Date    time.Time
}

// Engine expands recurring classes into virtual occurrences.
type Engine struct {
	logger *slog.Logger
}

// NewEngine constructs an Engine. A nil logger falls back to slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Window returns the default expansion bounds: the calendar date of now
// through now plus the given number of months, inclusive.
func Window(now time.Time, months int) (time.Time, time.Time) {
	if months <= 0 {
		months = 3
	}
	start := NormalizeDate(now)
	return start, start.AddDate(0, months, 0)
}

// NormalizeDate truncates a timestamp to its calendar date at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type slot struct {
	date   time.Time
	roomID string
	minute int
}

// Expand walks every recurring class in the input and emits the virtual
// occurrences falling inside [windowStart, windowEnd], both inclusive.
//
// Semantics:
//   - The effective range for a series is bounded below by the origin date
//     and above by EndsOn when the series is finite.
//   - The origin date itself is never emitted; the persisted record covers it.
//   - A virtual occurrence is suppressed when a non-recurring class in the
//     input occupies the same date, room, and start minute.
//   - A class with malformed recurrence fields is skipped with a logged
//     warning; expansion of the remaining classes continues.
//
// The result is ordered by date, then class id, and is deterministic for
// identical inputs.
func (e *Engine) Expand(classes []Class, windowStart, windowEnd time.Time) []Occurrence {
	windowStart = NormalizeDate(windowStart)
	windowEnd = NormalizeDate(windowEnd)
	if windowEnd.Before(windowStart) {
		return nil
	}

	taken := make(map[slot]struct{})
	for _, class := range classes {
		if class.Recurring || class.Date.IsZero() {
			continue
		}
		taken[slot{date: NormalizeDate(class.Date), roomID: class.RoomID, minute: class.StartMinute}] = struct{}{}
	}

	occurrences := make([]Occurrence, 0)

	for _, class := range classes {
		if !class.Recurring {
			continue
		}
		if err := validateSeries(class); err != nil {
			e.logger.Warn("skipping class with invalid recurrence",
				"class_id", class.ID,
				"pattern", class.Pattern.String(),
				"error", err,
			)
			continue
		}

		origin := NormalizeDate(class.Date)

		upper := windowEnd
		if class.EndsOn != nil {
			if ends := NormalizeDate(*class.EndsOn); ends.Before(upper) {
				upper = ends
			}
		}

		lower := windowStart
		if origin.After(lower) {
			lower = origin
		}

		for current := lower; !current.After(upper); current = current.AddDate(0, 0, 1) {
			if current.Equal(origin) {
				continue
			}
			if !includes(class.Pattern, origin, current) {
				continue
			}
			if _, occupied := taken[slot{date: current, roomID: class.RoomID, minute: class.StartMinute}]; occupied {
				continue
			}
			occurrences = append(occurrences, Occurrence{ClassID: class.ID, Date: current})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].ClassID < occurrences[j].ClassID
		}
		return occurrences[i].Date.Before(occurrences[j].Date)
	})

	return occurrences
}

func validateSeries(class Class) error {
	if class.Date.IsZero() {
		return errors.New("origin date is not set")
	}
	switch class.Pattern {
	case PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly:
	default:
		return ErrInvalidPattern
	}
	if class.EndsOn != nil && NormalizeDate(*class.EndsOn).Before(NormalizeDate(class.Date)) {
		return errors.New("series ends before its origin date")
	}
	return nil
}

func includes(pattern Pattern, origin, candidate time.Time) bool {
	switch pattern {
	case PatternDaily:
		return true
	case PatternWeekly:
		return candidate.Weekday() == origin.Weekday()
	case PatternBiweekly:
		if candidate.Weekday() != origin.Weekday() {
			return false
		}
		days := int(candidate.Sub(origin).Hours() / 24)
		return (days/7)%2 == 0
	case PatternMonthly:
		return candidate.Day() == origin.Day()
	default:
		return false
	}
}
