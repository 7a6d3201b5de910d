package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/recurrence"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/scheduler"
)

// ClassRepository captures the persistence interactions needed by the service.
type ClassRepository interface {
	CreateClass(ctx context.Context, class Class) (Class, error)
	GetClass(ctx context.Context, id string) (Class, error)
	UpdateClass(ctx context.Context, class Class) (Class, error)
	DeleteClass(ctx context.Context, id string) error
	ListClasses(ctx context.Context, filter ClassRepositoryFilter) ([]Class, error)
}

// ClassRepositoryFilter narrows queries issued to the class repository.
type ClassRepositoryFilter struct {
	RoomID string
}

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	RoomExists(ctx context.Context, id string) (bool, error)
}

// ScheduleService orchestrates validation, conflict detection, and recurrence
// expansion for class operations.
type ScheduleService struct {
	classes         ClassRepository
	rooms           RoomCatalog
	engine          *recurrence.Engine
	lookaheadMonths int
	idGenerator     func() string
	now             func() time.Time
	logger          *slog.Logger
}

// NewScheduleService wires dependencies for class operations.
func NewScheduleService(classes ClassRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *ScheduleService {
	return NewScheduleServiceWithLogger(classes, rooms, idGenerator, now, nil)
}

// NewScheduleServiceWithLogger constructs a schedule service with a specified logger.
func NewScheduleServiceWithLogger(classes ClassRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	logger = defaultLogger(logger)
	return &ScheduleService{
		classes:     classes,
		rooms:       rooms,
		engine:      recurrence.NewEngine(logger),
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// SetLookaheadMonths overrides the default schedule look-ahead window.
func (s *ScheduleService) SetLookaheadMonths(months int) {
	if s == nil || months <= 0 {
		return
	}
	s.lookaheadMonths = months
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// CreateClass validates the request, rejects conflicting bookings, and
// persists a new class for administrators.
func (s *ScheduleService) CreateClass(ctx context.Context, params CreateClassParams) (class Class, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateClass",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create class", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("class_id", class.ID).InfoContext(ctx, "class created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	input := normalizeClassInput(params.Input)

	vErr := &ValidationError{}
	validateClassCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureRoomExists(ctx, input.RoomID); err != nil {
		return
	}

	createdAt := s.now()
	class = Class{
		ID:             s.idGenerator(),
		Title:          input.Title,
		Description:    input.Description,
		RoomID:         input.RoomID,
		Date:           input.Date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Teacher:        input.Teacher,
		MaxStudents:    input.MaxStudents,
		Students:       input.Students,
		Recurring:      input.Recurring,
		Pattern:        input.Pattern,
		RecurrenceKind: input.RecurrenceKind,
		RecurrenceEnd:  input.RecurrenceEnd,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if s.classes == nil {
		return
	}

	if err = s.rejectConflicts(ctx, class, ""); err != nil {
		return
	}

	var persisted Class
	persisted, err = s.classes.CreateClass(ctx, class)
	if err != nil {
		err = mapClassRepoError(err)
		return
	}

	class = persisted
	return
}

// UpdateClass applies validation, conflict detection, and authorization
// before updating persistence state.
func (s *ScheduleService) UpdateClass(ctx context.Context, params UpdateClassParams) (class Class, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}
	if s.classes == nil {
		err = fmt.Errorf("class repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateClass",
		"principal_id", params.Principal.UserID,
		"class_id", params.ClassID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update class", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("class_id", class.ID).InfoContext(ctx, "class updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Class
	existing, err = s.classes.GetClass(ctx, params.ClassID)
	if err != nil {
		err = mapClassRepoError(err)
		return
	}

	input := normalizeClassInput(params.Input)

	vErr := &ValidationError{}
	validateClassCore(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureRoomExists(ctx, input.RoomID); err != nil {
		return
	}

	updated := existing
	updated.Title = input.Title
	updated.Description = input.Description
	updated.RoomID = input.RoomID
	updated.Date = input.Date
	updated.StartTime = input.StartTime
	updated.EndTime = input.EndTime
	updated.Teacher = input.Teacher
	updated.MaxStudents = input.MaxStudents
	updated.Students = input.Students
	updated.Recurring = input.Recurring
	updated.Pattern = input.Pattern
	updated.RecurrenceKind = input.RecurrenceKind
	updated.RecurrenceEnd = input.RecurrenceEnd
	updated.UpdatedAt = s.now()

	if err = s.rejectConflicts(ctx, updated, existing.ID); err != nil {
		return
	}

	class, err = s.classes.UpdateClass(ctx, updated)
	if err != nil {
		err = mapClassRepoError(err)
		return
	}

	return
}

// GetClass returns one class record for any authenticated user.
func (s *ScheduleService) GetClass(ctx context.Context, principal Principal, classID string) (Class, error) {
	if s == nil {
		return Class{}, fmt.Errorf("ScheduleService is nil")
	}
	if s.classes == nil {
		return Class{}, fmt.Errorf("class repository not configured")
	}

	class, err := s.classes.GetClass(ctx, classID)
	if err != nil {
		return Class{}, mapClassRepoError(err)
	}
	return class, nil
}

// DeleteClass removes a class record, and with it the entire series when the
// record is recurring.
func (s *ScheduleService) DeleteClass(ctx context.Context, principal Principal, classID string) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.classes == nil {
		return fmt.Errorf("class repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteClass",
		"principal_id", principal.UserID,
		"class_id", classID,
	)

	if err := s.classes.DeleteClass(ctx, classID); err != nil {
		err = mapClassRepoError(err)
		logger.ErrorContext(ctx, "failed to delete class", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "class deleted")
	return nil
}

// ListSchedule returns the occurrences visible in the requested window,
// real records merged with derived occurrences of recurring series. Without
// explicit bounds the window starts at the current date and extends by the
// configured look-ahead.
func (s *ScheduleService) ListSchedule(ctx context.Context, params ListScheduleParams) (occurrences []Occurrence, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}
	if s.classes == nil {
		err = fmt.Errorf("class repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ListSchedule",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(occurrences)).InfoContext(ctx, "schedule listed")
	}()

	windowStart, windowEnd := recurrence.Window(s.now(), s.lookaheadMonths)
	if params.From != nil {
		windowStart = recurrence.NormalizeDate(*params.From)
	}
	if params.To != nil {
		windowEnd = recurrence.NormalizeDate(*params.To)
	}
	if windowEnd.Before(windowStart) {
		vErr := &ValidationError{}
		vErr.add("window", "to must not be before from")
		err = vErr
		return
	}

	var classes []Class
	classes, err = s.classes.ListClasses(ctx, ClassRepositoryFilter{RoomID: params.RoomID})
	if err != nil {
		if isNotFoundError(err) {
			err = nil
			return
		}
		return
	}

	occurrences = s.expandWindow(classes, windowStart, windowEnd)
	return
}

// rejectConflicts fails with a ConflictError when the candidate's booking
// overlaps any occurrence already holding the room on the candidate's date.
// excludeID removes the candidate's own record and series from consideration.
func (s *ScheduleService) rejectConflicts(ctx context.Context, candidate Class, excludeID string) error {
	startMinute, err := scheduler.ParseClock(candidate.StartTime)
	if err != nil {
		return err
	}
	endMinute, err := scheduler.ParseClock(candidate.EndTime)
	if err != nil {
		return err
	}

	classes, err := s.classes.ListClasses(ctx, ClassRepositoryFilter{RoomID: candidate.RoomID})
	if err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return err
	}

	date := recurrence.NormalizeDate(candidate.Date)
	existing := s.occurrencesOn(classes, date)

	conflicts := scheduler.DetectConflicts(existing, scheduler.Slot{
		RoomID:         candidate.RoomID,
		Date:           date,
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		ExcludeClassID: excludeID,
	})
	if len(conflicts) == 0 {
		return nil
	}
	return conflictError(conflicts[0])
}

// occurrencesOn projects every class onto the given date: real records whose
// own date matches, plus derived occurrences of recurring series landing there.
func (s *ScheduleService) occurrencesOn(classes []Class, date time.Time) []scheduler.Occurrence {
	byID := make(map[string]Class, len(classes))
	occurrences := make([]scheduler.Occurrence, 0, len(classes))

	for _, class := range classes {
		byID[class.ID] = class
		if !recurrence.NormalizeDate(class.Date).Equal(date) {
			continue
		}
		occ, ok := toSchedulerOccurrence(class, date, false)
		if !ok {
			s.logger.Warn("skipping class with malformed clock values", "class_id", class.ID)
			continue
		}
		occurrences = append(occurrences, occ)
	}

	for _, virtual := range s.engine.Expand(toRecurrenceClasses(classes), date, date) {
		class, ok := byID[virtual.ClassID]
		if !ok {
			continue
		}
		occ, ok := toSchedulerOccurrence(class, virtual.Date, true)
		if !ok {
			continue
		}
		occurrences = append(occurrences, occ)
	}

	return occurrences
}

// expandWindow merges real records and derived occurrences across the window,
// ordered by date, start time, then class ID.
func (s *ScheduleService) expandWindow(classes []Class, windowStart, windowEnd time.Time) []Occurrence {
	byID := make(map[string]Class, len(classes))
	occurrences := make([]Occurrence, 0, len(classes))

	for _, class := range classes {
		byID[class.ID] = class
		date := recurrence.NormalizeDate(class.Date)
		if date.Before(windowStart) || date.After(windowEnd) {
			continue
		}
		occurrences = append(occurrences, Occurrence{
			Key:     OccurrenceKey{ClassID: class.ID, Date: date},
			Class:   class,
			Virtual: false,
		})
	}

	for _, virtual := range s.engine.Expand(toRecurrenceClasses(classes), windowStart, windowEnd) {
		class, ok := byID[virtual.ClassID]
		if !ok {
			continue
		}
		projected := class
		projected.Date = virtual.Date
		occurrences = append(occurrences, Occurrence{
			Key:     OccurrenceKey{ClassID: class.ID, Date: virtual.Date},
			Class:   projected,
			Virtual: true,
		})
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Key.Date.Equal(b.Key.Date) {
			return a.Key.Date.Before(b.Key.Date)
		}
		if a.Class.StartTime != b.Class.StartTime {
			return a.Class.StartTime < b.Class.StartTime
		}
		return a.Key.ClassID < b.Key.ClassID
	})

	return occurrences
}

func (s *ScheduleService) ensureRoomExists(ctx context.Context, roomID string) error {
	if roomID == "" || s.rooms == nil {
		return nil
	}
	exists, err := s.rooms.RoomExists(ctx, roomID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("room_id", "room does not exist")
	return vErr
}

func toSchedulerOccurrence(class Class, date time.Time, virtual bool) (scheduler.Occurrence, bool) {
	startMinute, err := scheduler.ParseClock(class.StartTime)
	if err != nil {
		return scheduler.Occurrence{}, false
	}
	endMinute, err := scheduler.ParseClock(class.EndTime)
	if err != nil {
		return scheduler.Occurrence{}, false
	}
	return scheduler.Occurrence{
		ClassID:     class.ID,
		RoomID:      class.RoomID,
		Date:        date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Virtual:     virtual,
	}, true
}

// toRecurrenceClasses converts records into the expander's input form.
// Records with values the expander cannot use are passed through with an
// unspecified pattern so the expander logs and skips them.
func toRecurrenceClasses(classes []Class) []recurrence.Class {
	out := make([]recurrence.Class, 0, len(classes))
	for _, class := range classes {
		converted := recurrence.Class{
			ID:        class.ID,
			RoomID:    class.RoomID,
			Date:      recurrence.NormalizeDate(class.Date),
			Recurring: class.Recurring,
		}
		if minute, err := scheduler.ParseClock(class.StartTime); err == nil {
			converted.StartMinute = minute
		}
		if class.Recurring {
			if pattern, err := recurrence.ParsePattern(string(class.Pattern)); err == nil {
				converted.Pattern = pattern
			}
			if class.RecurrenceKind == RecurrenceFinite && class.RecurrenceEnd != nil {
				end := recurrence.NormalizeDate(*class.RecurrenceEnd)
				converted.EndsOn = &end
			}
		}
		out = append(out, converted)
	}
	return out
}

func normalizeClassInput(input ClassInput) ClassInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Teacher = strings.TrimSpace(input.Teacher)
	input.Students = sortStrings(uniqueStrings(input.Students))
	if !input.Date.IsZero() {
		input.Date = recurrence.NormalizeDate(input.Date)
	}
	if input.RecurrenceEnd != nil {
		end := recurrence.NormalizeDate(*input.RecurrenceEnd)
		input.RecurrenceEnd = &end
	}
	if !input.Recurring {
		input.Pattern = RecurrenceNone
		input.RecurrenceKind = ""
		input.RecurrenceEnd = nil
	}
	return input
}

func validateClassCore(input ClassInput, vErr *ValidationError) {
	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.RoomID == "" {
		vErr.add("room_id", "room is required")
	}
	if input.Teacher == "" {
		vErr.add("teacher", "teacher is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}

	startMinute, startErr := scheduler.ParseClock(input.StartTime)
	if startErr != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}
	endMinute, endErr := scheduler.ParseClock(input.EndTime)
	if endErr != nil {
		vErr.add("end_time", "end time must be HH:MM")
	}
	if startErr == nil && endErr == nil && startMinute >= endMinute {
		vErr.add("time", "start time must be before end time")
	}

	if input.MaxStudents <= 0 {
		vErr.add("max_students", "max students must be positive")
	} else if len(input.Students) > input.MaxStudents {
		vErr.add("students", "enrolled students exceed max students")
	}

	if input.Recurring {
		if _, err := recurrence.ParsePattern(string(input.Pattern)); err != nil {
			vErr.add("pattern", "pattern must be daily, weekly, biweekly, or monthly")
		}
		switch input.RecurrenceKind {
		case RecurrenceFinite:
			if input.RecurrenceEnd == nil {
				vErr.add("recurrence_end", "finite series requires an end date")
			} else if !input.Date.IsZero() && input.RecurrenceEnd.Before(input.Date) {
				vErr.add("recurrence_end", "end date must not be before the first occurrence")
			}
		case RecurrenceInfinite:
			if input.RecurrenceEnd != nil {
				vErr.add("recurrence_end", "open-ended series must not set an end date")
			}
		default:
			vErr.add("recurrence_kind", "recurrence kind must be finite or infinite")
		}
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func sortStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

func mapClassRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start time must be before end time")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("room_id", "room does not exist")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
