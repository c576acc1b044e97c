package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/canonlab/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// MockRedisClient keeps objects in an in-process map. TTLs are ignored.
type MockRedisClient struct {
	mutex   sync.Mutex
	objects map[string][]byte
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{objects: make(map[string][]byte)}
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.objects[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, key := range keys {
		delete(m.objects, key)
	}

	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	return nil
}

func (m *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	return nil, nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.objects[key] = b
	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	m.mutex.Lock()
	b, ok := m.objects[key]
	m.mutex.Unlock()

	if !ok {
		return xredis.ErrNotFound
	}

	return json.Unmarshal(b, v)
}
