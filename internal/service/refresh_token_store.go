package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore registra las sesiones de refresh vigentes como
// jti -> dueno. Owner permite cruzar el dueno almacenado contra los
// claims del token antes de rotar; Revoke corta la sesion en el logout,
// a la par del teardown del workspace.
type RefreshTokenStore interface {
	Store(jti, userID string, ttl time.Duration) error
	Owner(jti string) (string, bool, error)
	Revoke(jti string) error
}

type refreshSession struct {
	userID    string
	expiresAt time.Time
}

type memoryRefreshTokenStore struct {
	mu       sync.Mutex
	sessions map[string]refreshSession
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		sessions: make(map[string]refreshSession),
	}
}

func (s *memoryRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[jti] = refreshSession{
		userID:    userID,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryRefreshTokenStore) Owner(jti string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[jti]
	if !ok {
		return "", false, nil
	}
	if time.Now().UTC().After(session.expiresAt) {
		delete(s.sessions, jti)
		return "", false, nil
	}
	return session.userID, true, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, jti)
	return nil
}

const refreshStoreTimeout = 500 * time.Millisecond

type redisRefreshTokenStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRefreshTokenStore guarda cada sesion bajo el prefijo del
// modulo con el dueno como valor, asi Owner es un Get directo y el TTL
// lo expira Redis.
func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client: client,
		prefix: "journeymap:refresh:",
	}
}

func (s *redisRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshStoreTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+jti, userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Owner(jti string) (string, bool, error) {
	if strings.TrimSpace(jti) == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshStoreTimeout)
	defer cancel()
	owner, err := s.client.Get(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return owner, true, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshStoreTimeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+jti).Err()
}
