package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// BreedCache keeps the breed list between lookups. Get reports ok=false on a
// miss.
type BreedCache interface {
	Get(ctx context.Context) ([]Breed, bool, error)
	Set(ctx context.Context, breeds []Breed) error
}

type MemoryCache struct {
	ttl       time.Duration
	now       func() time.Time
	mu        sync.RWMutex
	breeds    []Breed
	expiresAt time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context) ([]Breed, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.breeds == nil || !m.now().Before(m.expiresAt) {
		return nil, false, nil
	}
	return m.breeds, true, nil
}

func (m *MemoryCache) Set(_ context.Context, breeds []Breed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breeds = breeds
	m.expiresAt = m.now().Add(m.ttl)
	return nil
}

const redisBreedsKey = "catapi:breeds"

// RedisCache shares the breed list between instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context) ([]Breed, bool, error) {
	raw, err := r.rdb.Get(ctx, redisBreedsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get breeds: %w", err)
	}
	var breeds []Breed
	if err := json.Unmarshal(raw, &breeds); err != nil {
		return nil, false, fmt.Errorf("decode cached breeds: %w", err)
	}
	return breeds, true, nil
}

func (r *RedisCache) Set(ctx context.Context, breeds []Breed) error {
	raw, err := json.Marshal(breeds)
	if err != nil {
		return fmt.Errorf("encode breeds: %w", err)
	}
	if err := r.rdb.Set(ctx, redisBreedsKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set breeds: %w", err)
	}
	return nil
}
