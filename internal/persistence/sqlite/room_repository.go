package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository on SQLite.
type RoomRepository struct {
	store *Store
}

// NewRoomRepository creates a room repository backed by the store.
func NewRoomRepository(store *Store) *RoomRepository {
	return &RoomRepository{store: store}
}

// CreateRoom inserts a new room.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, description, x, y, width, height, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID,
		room.Name,
		nullInt(room.Capacity),
		room.Description,
		room.X, room.Y, room.Width, room.Height,
		timeText(room.CreatedAt),
		timeText(room.UpdatedAt),
	)
	return mapError(err)
}

// UpdateRoom updates an existing room.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, capacity = ?, description = ?, x = ?, y = ?, width = ?, height = ?, updated_at = ?
		WHERE id = ?`,
		room.Name,
		nullInt(room.Capacity),
		room.Description,
		room.X, room.Y, room.Width, room.Height,
		timeText(room.UpdatedAt),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, description, x, y, width, height, created_at, updated_at
		FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// ListRooms returns every room.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, name, capacity, description, x, y, width, height, created_at, updated_at
		FROM rooms ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes a room by ID.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room      persistence.Room
		capacity  sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&room.ID, &room.Name, &capacity, &room.Description,
		&room.X, &room.Y, &room.Width, &room.Height,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	if capacity.Valid {
		value := int(capacity.Int64)
		room.Capacity = &value
	}
	if room.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

func nullInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
