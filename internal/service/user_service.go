package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"journeymap/internal/domain"
	"journeymap/internal/repository"
	"journeymap/internal/storage"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
)

// UserService coordina registro, login y perfil. Es el collaborator de
// identidad: el workspace se abre y cierra siguiendo sus sesiones.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	photos storage.ObjectStore
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, photos storage.ObjectStore) *UserService {
	return &UserService{logger: logger, users: users, photos: photos}
}

// Register crea un usuario con password hasheado via bcrypt.
func (s *UserService) Register(ctx context.Context, email, displayName, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(strings.TrimSpace(password)) < 8 {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate valida credenciales y devuelve el usuario.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile actualiza nombre visible y, si viene foto, la sube al
// object store y guarda la URL resultante.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName string, photo []byte, photoName, contentType string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	photoURL := user.PhotoURL
	if len(photo) > 0 {
		if int64(len(photo)) > domain.MaxImageBytes {
			return domain.User{}, domain.ErrPayloadTooLarge
		}
		key := fmt.Sprintf("profile-photos/%s/%d-%s", userID, time.Now().UTC().UnixMilli(), photoName)
		photoURL, err = s.photos.Store(ctx, key, photo, contentType)
		if err != nil {
			return domain.User{}, fmt.Errorf("store photo: %w", err)
		}
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = user.DisplayName
	}

	if err := s.users.UpdateProfile(ctx, userID, name, photoURL); err != nil {
		return domain.User{}, err
	}
	user.DisplayName = name
	user.PhotoURL = photoURL
	return user, nil
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return ""
	}
	return email
}
