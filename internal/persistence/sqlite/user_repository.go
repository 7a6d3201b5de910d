package sqlite

import (
	"context"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

// UserRepository implements persistence.UserRepository on SQLite.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository backed by the store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// CreateUser inserts an account. Emails are unique.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, is_admin, password_hash, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		boolInt(user.IsAdmin),
		user.PasswordHash,
		boolInt(user.Disabled),
		timeText(user.CreatedAt),
		timeText(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser rewrites an account's profile fields. The password hash is
// managed separately through UpdatePassword.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, display_name = ?, is_admin = ?, disabled = ?, updated_at = ?
		WHERE id = ?`,
		user.Email,
		user.DisplayName,
		boolInt(user.IsAdmin),
		boolInt(user.Disabled),
		timeText(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// UpdatePassword replaces an account's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetUser retrieves one account by identifier.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves one account by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns all accounts ordered by email.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.store.db.QueryContext(ctx, userSelect+` ORDER BY email, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes an account by identifier.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

const userSelect = `
	SELECT id, email, display_name, is_admin, password_hash, disabled, created_at, updated_at
	FROM users`

func scanUser(row rowScanner) (persistence.User, error) {
	var (
		user      persistence.User
		isAdmin   int
		disabled  int
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &isAdmin,
		&user.PasswordHash, &disabled, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	user.IsAdmin = isAdmin != 0
	user.Disabled = disabled != 0
	if user.CreatedAt, err = parseTimeText(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTimeText(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}
