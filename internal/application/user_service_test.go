package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

type userRepoStub struct {
	user      User
	created   User
	createdPW string
	updated   User
	updatedPW string
	err       error
	list      []User
}

func (s *userRepoStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	s.created = user
	s.createdPW = passwordHash
	return user, nil
}

func (s *userRepoStub) GetUser(ctx context.Context, id string) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	if s.user.ID == "" {
		return User{}, ErrNotFound
	}
	return s.user, nil
}

func (s *userRepoStub) UpdateUser(ctx context.Context, user User) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	s.updated = user
	return user, nil
}

func (s *userRepoStub) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.updatedPW = passwordHash
	return s.err
}

func (s *userRepoStub) DeleteUser(ctx context.Context, id string) error {
	return s.err
}

func (s *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func fakeHash(password string) (string, error) {
	return "hash:" + password, nil
}

func newUserService(repo *userRepoStub) *UserService {
	return NewUserService(repo, fakeHash, func() string { return "user-1" }, func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})
}

func TestUserService_Register_CreatesCustomerAccount(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{}
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), UserInput{
		Email:       " Student@Example.COM ",
		DisplayName: "Student",
		Password:    "correct horse",
		IsAdmin:     true,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "student@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.IsAdmin {
		t.Fatalf("self-registration must never create an administrator")
	}
	if repo.createdPW != "hash:correct horse" {
		t.Fatalf("password not hashed: %q", repo.createdPW)
	}
}

func TestUserService_Register_ValidatesPassword(t *testing.T) {
	t.Parallel()

	svc := newUserService(&userRepoStub{})

	_, err := svc.Register(context.Background(), UserInput{
		Email:       "student@example.com",
		DisplayName: "Student",
		Password:    "short",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["password"]; !ok {
		t.Fatalf("expected password field error, got %v", vErr.FieldErrors)
	}
}

func TestUserService_Register_MapsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{err: persistence.ErrDuplicate}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), UserInput{
		Email:       "student@example.com",
		DisplayName: "Student",
		Password:    "correct horse",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUserService_CreateUser_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newUserService(&userRepoStub{})

	_, err := svc.CreateUser(context.Background(), CreateUserParams{
		Principal: Principal{UserID: "user-1"},
		Input:     UserInput{Email: "a@b.example", DisplayName: "A", Password: "long enough"},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUserService_UpdateUser_PasswordOptional(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{user: User{ID: "user-2", Email: "old@example.com", DisplayName: "Old"}}
	svc := newUserService(repo)

	_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
		Principal: admin(),
		UserID:    "user-2",
		Input:     UserInput{Email: "new@example.com", DisplayName: "New"},
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if repo.updatedPW != "" {
		t.Fatalf("password should not change when blank")
	}

	_, err = svc.UpdateUser(context.Background(), UpdateUserParams{
		Principal: admin(),
		UserID:    "user-2",
		Input:     UserInput{Email: "new@example.com", DisplayName: "New", Password: "fresh password"},
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if repo.updatedPW != "hash:fresh password" {
		t.Fatalf("password not rehashed: %q", repo.updatedPW)
	}
}

func TestUserService_GetUser_SelfOrAdmin(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{user: User{ID: "user-2", Email: "u@example.com"}}
	svc := newUserService(repo)

	if _, err := svc.GetUser(context.Background(), Principal{UserID: "user-3"}, "user-2"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for stranger, got %v", err)
	}
	if _, err := svc.GetUser(context.Background(), Principal{UserID: "user-2"}, "user-2"); err != nil {
		t.Fatalf("self lookup failed: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), admin(), "user-2"); err != nil {
		t.Fatalf("admin lookup failed: %v", err)
	}
}

func TestUserService_ListUsers_AdminOnlySortedByEmail(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{list: []User{
		{ID: "u2", Email: "zeta@example.com"},
		{ID: "u1", Email: "Alpha@example.com"},
	}}
	svc := newUserService(repo)

	if _, err := svc.ListUsers(context.Background(), Principal{UserID: "user-1"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	users, err := svc.ListUsers(context.Background(), admin())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u1" || users[1].ID != "u2" {
		t.Fatalf("unexpected ordering: %+v", users)
	}
}
