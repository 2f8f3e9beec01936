package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"journeymap/internal/domain"
	"journeymap/internal/storage"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (r *memoryUserRepo) UpdateProfile(_ context.Context, id, displayName, photoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.DisplayName = displayName
	u.PhotoURL = photoURL
	r.users[id] = u
	return nil
}

func newTestUserService(repo *memoryUserRepo) *UserService {
	return NewUserService(zap.NewNop(), repo, storage.NewDisabledStore("disabled in tests"))
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), "  User@Example.COM ", "Amari", "long-enough-password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "long-enough-password" {
		t.Fatal("password must be stored hashed")
	}
	if user.ID == "" {
		t.Fatal("expected fresh id")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newTestUserService(newMemoryUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "x", "long-enough-password"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.com", "x", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticateVerifiesPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.com", "Amari", "correct-password"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "A@B.com", "correct-password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Authenticate(ctx, "a@b.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "missing@b.com", "whatever"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfileKeepsNameWhenBlank(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.com", "Amari", "long-enough-password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, user.ID, "  ", nil, "", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DisplayName != "Amari" {
		t.Fatalf("blank name must keep previous, got %q", updated.DisplayName)
	}

	updated, err = svc.UpdateProfile(ctx, user.ID, "New Name", nil, "", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DisplayName != "New Name" {
		t.Fatalf("name not applied: %q", updated.DisplayName)
	}
}

func TestUpdateProfileRejectsOversizedPhoto(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.com", "Amari", "long-enough-password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.UpdateProfile(ctx, user.ID, "x", make([]byte, domain.MaxImageBytes+1), "big.png", "image/png")
	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}
