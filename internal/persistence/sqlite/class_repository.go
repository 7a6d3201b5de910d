package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// ClassRepository implements persistence.ClassRepository on SQLite. Enrolled
// students live in a join table and are written atomically with the record.
type ClassRepository struct {
	store *Store
}

// NewClassRepository creates a class repository backed by the store.
func NewClassRepository(store *Store) *ClassRepository {
	return &ClassRepository{store: store}
}

// CreateClass inserts a class record together with its student list.
func (r *ClassRepository) CreateClass(ctx context.Context, class persistence.Class) error {
	if class.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO classes (id, title, description, room_id, date, start_time, end_time,
				teacher, max_students, recurring, pattern, recurrence_kind, recurrence_end,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			class.ID,
			class.Title,
			class.Description,
			class.RoomID,
			dateText(class.Date),
			class.StartTime,
			class.EndTime,
			class.Teacher,
			class.MaxStudents,
			boolInt(class.Recurring),
			class.Pattern,
			class.RecurrenceKind,
			nullDateText(class.RecurrenceEnd),
			timeText(class.CreatedAt),
			timeText(class.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return insertStudents(ctx, tx, class.ID, class.Students)
	})
}

// UpdateClass rewrites a class record and replaces its student list.
func (r *ClassRepository) UpdateClass(ctx context.Context, class persistence.Class) error {
	if class.ID == "" {
		return persistence.ErrNotFound
	}

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE classes
			SET title = ?, description = ?, room_id = ?, date = ?, start_time = ?, end_time = ?,
				teacher = ?, max_students = ?, recurring = ?, pattern = ?, recurrence_kind = ?,
				recurrence_end = ?, updated_at = ?
			WHERE id = ?`,
			class.Title,
			class.Description,
			class.RoomID,
			dateText(class.Date),
			class.StartTime,
			class.EndTime,
			class.Teacher,
			class.MaxStudents,
			boolInt(class.Recurring),
			class.Pattern,
			class.RecurrenceKind,
			nullDateText(class.RecurrenceEnd),
			timeText(class.UpdatedAt),
			class.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM class_students WHERE class_id = ?`, class.ID); err != nil {
			return mapError(err)
		}
		return insertStudents(ctx, tx, class.ID, class.Students)
	})
}

// GetClass retrieves one class record with its students.
func (r *ClassRepository) GetClass(ctx context.Context, id string) (persistence.Class, error) {
	if id == "" {
		return persistence.Class{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, classSelect+` WHERE id = ?`, id)
	class, err := scanClass(row)
	if err != nil {
		return persistence.Class{}, err
	}

	students, err := r.studentsFor(ctx, []string{id})
	if err != nil {
		return persistence.Class{}, err
	}
	class.Students = students[id]
	return class, nil
}

// ListClasses returns class records matching the filter, with students attached.
func (r *ClassRepository) ListClasses(ctx context.Context, filter persistence.ClassFilter) ([]persistence.Class, error) {
	query := classSelect
	args := []any{}
	if filter.RoomID != "" {
		query += ` WHERE room_id = ?`
		args = append(args, filter.RoomID)
	}
	query += ` ORDER BY date, start_time, id`

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var classes []persistence.Class
	var ids []string
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
		ids = append(ids, class.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	students, err := r.studentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].Students = students[classes[i].ID]
	}
	return classes, nil
}

// DeleteClass removes a class record; the join table cascades.
func (r *ClassRepository) DeleteClass(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

const classSelect = `
	SELECT id, title, description, room_id, date, start_time, end_time,
		teacher, max_students, recurring, pattern, recurrence_kind, recurrence_end,
		created_at, updated_at
	FROM classes`

func scanClass(row rowScanner) (persistence.Class, error) {
	var (
		class         persistence.Class
		date          string
		recurring     int
		recurrenceEnd sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(
		&class.ID, &class.Title, &class.Description, &class.RoomID,
		&date, &class.StartTime, &class.EndTime,
		&class.Teacher, &class.MaxStudents, &recurring,
		&class.Pattern, &class.RecurrenceKind, &recurrenceEnd,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Class{}, mapError(err)
	}

	class.Recurring = recurring != 0
	if class.Date, err = parseDateText(date); err != nil {
		return persistence.Class{}, err
	}
	if class.RecurrenceEnd, err = scanNullDate(recurrenceEnd); err != nil {
		return persistence.Class{}, err
	}
	if class.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.Class{}, err
	}
	if class.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.Class{}, err
	}
	return class, nil
}

func insertStudents(ctx context.Context, tx *sql.Tx, classID string, students []string) error {
	for _, student := range students {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO class_students (class_id, student) VALUES (?, ?)`,
			classID, student,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *ClassRepository) studentsFor(ctx context.Context, classIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}

	query := `SELECT class_id, student FROM class_students WHERE class_id IN (?` +
		repeatPlaceholder(len(classIDs)-1) + `)`
	args := make([]any, len(classIDs))
	for i, id := range classIDs {
		args[i] = id
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var classID, student string
		if err := rows.Scan(&classID, &student); err != nil {
			return nil, mapError(err)
		}
		out[classID] = append(out[classID], student)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for id := range out {
		sort.Strings(out[id])
	}
	return out, nil
}

func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*3)
	for i := 0; i < n; i++ {
		out = append(out, ", ?"...)
	}
	return string(out)
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
