package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type classRepoStub struct {
	class     Class
	created   Class
	updated   Class
	err       error
	deleteErr error
	list      []Class
	listErr   error
}

func (s *classRepoStub) CreateClass(ctx context.Context, class Class) (Class, error) {
	if s.err != nil {
		return Class{}, s.err
	}
	s.created = class
	return class, nil
}

func (s *classRepoStub) GetClass(ctx context.Context, id string) (Class, error) {
	if s.err != nil {
		return Class{}, s.err
	}
	if s.class.ID == "" {
		return Class{}, ErrNotFound
	}
	return s.class, nil
}

func (s *classRepoStub) UpdateClass(ctx context.Context, class Class) (Class, error) {
	if s.err != nil {
		return Class{}, s.err
	}
	s.updated = class
	return class, nil
}

func (s *classRepoStub) DeleteClass(ctx context.Context, id string) error {
	return s.deleteErr
}

func (s *classRepoStub) ListClasses(ctx context.Context, filter ClassRepositoryFilter) ([]Class, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Class, 0, len(s.list))
	for _, class := range s.list {
		if filter.RoomID != "" && class.RoomID != filter.RoomID {
			continue
		}
		out = append(out, class)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

type roomCatalogStub struct {
	exists bool
	err    error
}

func (r *roomCatalogStub) RoomExists(ctx context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.exists, nil
}

func utcDate(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func admin() Principal {
	return Principal{UserID: "admin-1", IsAdmin: true}
}

func baseClassInput(t *testing.T) ClassInput {
	t.Helper()
	return ClassInput{
		Title:       "Beginner Piano",
		RoomID:      "room-1",
		Date:        utcDate(t, 2024, time.March, 4),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Teacher:     "Ms. Ahn",
		MaxStudents: 8,
	}
}

func newScheduleService(repo *classRepoStub, rooms *roomCatalogStub) *ScheduleService {
	return NewScheduleService(repo, rooms, func() string { return "class-1" }, func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})
}

func TestScheduleService_CreateClass_ValidatesTemporalBounds(t *testing.T) {
	t.Parallel()

	repo := &classRepoStub{}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	input := baseClassInput(t)
	input.StartTime = "11:00"
	input.EndTime = "10:00"

	_, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: input})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["time"]; !ok {
		t.Fatalf("expected time field error, got %v", vErr.FieldErrors)
	}
}

func TestScheduleService_CreateClass_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: true})

	_, err := svc.CreateClass(context.Background(), CreateClassParams{
		Principal: Principal{UserID: "user-1"},
		Input:     baseClassInput(t),
	})

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestScheduleService_CreateClass_RejectsUnknownRoom(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: false})

	_, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: baseClassInput(t)})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["room_id"]; !ok {
		t.Fatalf("expected room_id field error, got %v", vErr.FieldErrors)
	}
}

func TestScheduleService_CreateClass_RejectsOverlappingBooking(t *testing.T) {
	t.Parallel()

	repo := &classRepoStub{list: []Class{{
		ID:          "class-existing",
		Title:       "Guitar Basics",
		RoomID:      "room-1",
		Date:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:30",
		EndTime:     "11:30",
		Teacher:     "Mr. Park",
		MaxStudents: 6,
	}}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	_, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: baseClassInput(t)})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cErr.ClassID != "class-existing" {
		t.Fatalf("conflicting class = %q, want class-existing", cErr.ClassID)
	}
	if cErr.Virtual {
		t.Fatalf("conflict should reference a real occurrence")
	}
}

func TestScheduleService_CreateClass_AllowsBackToBackBookings(t *testing.T) {
	t.Parallel()

	repo := &classRepoStub{list: []Class{{
		ID:          "class-existing",
		RoomID:      "room-1",
		Date:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "10:00",
		Teacher:     "Mr. Park",
		MaxStudents: 6,
	}}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	input := baseClassInput(t)
	input.Students = []string{"s2", "s1", "s2"}

	class, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: input})
	if err != nil {
		t.Fatalf("CreateClass returned error: %v", err)
	}
	if class.ID != "class-1" {
		t.Fatalf("class ID = %q, want class-1", class.ID)
	}
	if len(repo.created.Students) != 2 || repo.created.Students[0] != "s1" || repo.created.Students[1] != "s2" {
		t.Fatalf("students not deduplicated and sorted: %v", repo.created.Students)
	}
}

func TestScheduleService_CreateClass_RejectsConflictWithDerivedOccurrence(t *testing.T) {
	t.Parallel()

	// Weekly series from Monday 2024-02-05 lands on 2024-03-04.
	repo := &classRepoStub{list: []Class{{
		ID:             "class-series",
		RoomID:         "room-1",
		Date:           time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "11:00",
		Teacher:        "Mr. Park",
		MaxStudents:    6,
		Recurring:      true,
		Pattern:        RecurrenceWeekly,
		RecurrenceKind: RecurrenceInfinite,
	}}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	_, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: baseClassInput(t)})

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cErr.ClassID != "class-series" {
		t.Fatalf("conflicting class = %q, want class-series", cErr.ClassID)
	}
	if !cErr.Virtual {
		t.Fatalf("conflict should reference a derived occurrence")
	}
}

func TestScheduleService_CreateClass_ValidatesRecurrenceFields(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: true})

	input := baseClassInput(t)
	input.Recurring = true
	input.Pattern = RecurrencePattern("fortnightly")
	input.RecurrenceKind = RecurrenceFinite

	_, err := svc.CreateClass(context.Background(), CreateClassParams{Principal: admin(), Input: input})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["pattern"]; !ok {
		t.Fatalf("expected pattern field error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["recurrence_end"]; !ok {
		t.Fatalf("expected recurrence_end field error, got %v", vErr.FieldErrors)
	}
}

func TestScheduleService_UpdateClass_ExcludesOwnRecordFromConflicts(t *testing.T) {
	t.Parallel()

	existing := Class{
		ID:          "class-1",
		Title:       "Beginner Piano",
		RoomID:      "room-1",
		Date:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Teacher:     "Ms. Ahn",
		MaxStudents: 8,
	}
	repo := &classRepoStub{class: existing, list: []Class{existing}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	input := baseClassInput(t)
	input.StartTime = "10:30"
	input.EndTime = "11:30"

	class, err := svc.UpdateClass(context.Background(), UpdateClassParams{
		Principal: admin(),
		ClassID:   "class-1",
		Input:     input,
	})
	if err != nil {
		t.Fatalf("UpdateClass returned error: %v", err)
	}
	if class.StartTime != "10:30" {
		t.Fatalf("start time = %q, want 10:30", class.StartTime)
	}
}

func TestScheduleService_UpdateClass_RequiresAdmin(t *testing.T) {
	t.Parallel()

	repo := &classRepoStub{class: Class{ID: "class-1"}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	_, err := svc.UpdateClass(context.Background(), UpdateClassParams{
		Principal: Principal{UserID: "user-1"},
		ClassID:   "class-1",
		Input:     baseClassInput(t),
	})

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestScheduleService_UpdateClass_MapsMissingRecord(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: true})

	_, err := svc.UpdateClass(context.Background(), UpdateClassParams{
		Principal: admin(),
		ClassID:   "missing",
		Input:     baseClassInput(t),
	})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleService_DeleteClass_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: true})

	err := svc.DeleteClass(context.Background(), Principal{UserID: "user-1"}, "class-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestScheduleService_ListSchedule_MergesRealAndDerivedOccurrences(t *testing.T) {
	t.Parallel()

	repo := &classRepoStub{list: []Class{
		{
			ID:          "class-single",
			RoomID:      "room-1",
			Date:        time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			StartTime:   "09:00",
			EndTime:     "10:00",
			Teacher:     "Mr. Park",
			MaxStudents: 6,
		},
		{
			ID:             "class-series",
			RoomID:         "room-1",
			Date:           time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			StartTime:      "10:00",
			EndTime:        "11:00",
			Teacher:        "Ms. Ahn",
			MaxStudents:    8,
			Recurring:      true,
			Pattern:        RecurrenceWeekly,
			RecurrenceKind: RecurrenceInfinite,
		},
	}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	from := utcDate(t, 2024, time.March, 4)
	to := utcDate(t, 2024, time.March, 11)

	occurrences, err := svc.ListSchedule(context.Background(), ListScheduleParams{
		Principal: Principal{UserID: "user-1"},
		From:      &from,
		To:        &to,
	})
	if err != nil {
		t.Fatalf("ListSchedule returned error: %v", err)
	}

	if len(occurrences) != 3 {
		t.Fatalf("occurrence count = %d, want 3", len(occurrences))
	}
	if occurrences[0].Key.ClassID != "class-series" || occurrences[0].Virtual {
		t.Fatalf("first occurrence should be the series origin record, got %+v", occurrences[0])
	}
	if occurrences[1].Key.ClassID != "class-single" || occurrences[1].Virtual {
		t.Fatalf("second occurrence should be the single class, got %+v", occurrences[1])
	}
	last := occurrences[2]
	if last.Key.ClassID != "class-series" || !last.Virtual {
		t.Fatalf("third occurrence should be derived from the series, got %+v", last)
	}
	if !last.Key.Date.Equal(utcDate(t, 2024, time.March, 11)) {
		t.Fatalf("derived occurrence date = %v, want 2024-03-11", last.Key.Date)
	}
	if !last.Class.Date.Equal(last.Key.Date) {
		t.Fatalf("derived occurrence should carry its projected date")
	}
}

func TestScheduleService_ListSchedule_RejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	svc := newScheduleService(&classRepoStub{}, &roomCatalogStub{exists: true})

	from := utcDate(t, 2024, time.March, 11)
	to := utcDate(t, 2024, time.March, 4)

	_, err := svc.ListSchedule(context.Background(), ListScheduleParams{
		Principal: Principal{UserID: "user-1"},
		From:      &from,
		To:        &to,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["window"]; !ok {
		t.Fatalf("expected window field error, got %v", vErr.FieldErrors)
	}
}

func TestScheduleService_ListSchedule_DefaultsToLookaheadWindow(t *testing.T) {
	t.Parallel()

	// The series extends past the default three-month window; only
	// occurrences inside the window may appear.
	repo := &classRepoStub{list: []Class{{
		ID:             "class-series",
		RoomID:         "room-1",
		Date:           time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "11:00",
		Teacher:        "Ms. Ahn",
		MaxStudents:    8,
		Recurring:      true,
		Pattern:        RecurrenceWeekly,
		RecurrenceKind: RecurrenceInfinite,
	}}}
	svc := newScheduleService(repo, &roomCatalogStub{exists: true})

	occurrences, err := svc.ListSchedule(context.Background(), ListScheduleParams{
		Principal: Principal{UserID: "user-1"},
	})
	if err != nil {
		t.Fatalf("ListSchedule returned error: %v", err)
	}
	if len(occurrences) == 0 {
		t.Fatalf("expected occurrences inside the default window")
	}

	windowEnd := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, occ := range occurrences {
		if occ.Key.Date.After(windowEnd) {
			t.Fatalf("occurrence %v falls outside the default window", occ.Key)
		}
	}
}
