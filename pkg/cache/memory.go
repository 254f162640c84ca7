package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryService keeps JSON blobs in process. Used when Redis is not
// configured and in tests.
type memoryService struct {
	store *gocache.Cache
}

func NewMemoryService(cleanupInterval time.Duration) Service {
	return &memoryService{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *memoryService) Get(_ context.Context, key string, dest interface{}) error {
	raw, found := m.store.Get(key)
	if !found {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (m *memoryService) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.store.Set(key, data, ttl)
	return nil
}

func (m *memoryService) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// DeletePattern accepts redis-style globs; '*' and '?' behave the same for
// keys without '/'.
func (m *memoryService) DeletePattern(_ context.Context, pattern string) error {
	for key := range m.store.Items() {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("cache pattern error: %w", err)
		}
		if ok {
			m.store.Delete(key)
		}
	}
	return nil
}

func (m *memoryService) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return getOrSet(ctx, m, key, ttl, fetcher, dest)
}

func (m *memoryService) Ping(context.Context) error { return nil }
