package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftCache espeja los drafts activos fuera del proceso para que una
// sesion interrumpida pueda reanudar su formulario. kind distingue
// "persona" de "journey".
type DraftCache interface {
	Save(ctx context.Context, userID, kind string, draft any) error
	Load(ctx context.Context, userID, kind string, into any) (bool, error)
	Discard(ctx context.Context, userID, kind string) error
}

const draftTTL = 24 * time.Hour

type memoryDraftCache struct {
	mu    sync.Mutex
	items map[string]memoryDraftEntry
}

type memoryDraftEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryDraftCache devuelve el cache en memoria usado cuando Redis
// no esta configurado.
func NewMemoryDraftCache() DraftCache {
	return &memoryDraftCache{items: make(map[string]memoryDraftEntry)}
}

func (c *memoryDraftCache) Save(_ context.Context, userID, kind string, draft any) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[draftKey(userID, kind)] = memoryDraftEntry{
		payload:   payload,
		expiresAt: time.Now().UTC().Add(draftTTL),
	}
	return nil
}

func (c *memoryDraftCache) Load(_ context.Context, userID, kind string, into any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[draftKey(userID, kind)]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, draftKey(userID, kind))
		return false, nil
	}
	return true, json.Unmarshal(entry.payload, into)
}

func (c *memoryDraftCache) Discard(_ context.Context, userID, kind string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, draftKey(userID, kind))
	return nil
}

// redisKV es el subconjunto de redis.Client que el cache usa; permite
// mockearlo en tests.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisDraftCache struct {
	client redisKV
	prefix string
}

// NewRedisDraftCache espeja drafts en Redis con TTL de un dia.
func NewRedisDraftCache(client redisKV) DraftCache {
	if client == nil {
		return nil
	}
	return &redisDraftCache{client: client, prefix: "journeymap:draft:"}
}

func (c *redisDraftCache) Save(ctx context.Context, userID, kind string, draft any) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+draftKey(userID, kind), payload, draftTTL).Err()
}

func (c *redisDraftCache) Load(ctx context.Context, userID, kind string, into any) (bool, error) {
	payload, err := c.client.Get(ctx, c.prefix+draftKey(userID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(payload, into)
}

func (c *redisDraftCache) Discard(ctx context.Context, userID, kind string) error {
	return c.client.Del(ctx, c.prefix+draftKey(userID, kind)).Err()
}

func draftKey(userID, kind string) string {
	return userID + ":" + kind
}
