package redis

import (
	"context"
	"path"
	"slices"
	"sync"
	"time"
)

type mockRedis struct {
	lock   sync.Mutex
	lookup map[string][]byte
}

// NewMockClient returns an in-process Cache, useful for tests.
func NewMockClient() Cache {
	return &mockRedis{
		lookup: make(map[string][]byte),
	}
}

func (m *mockRedis) Ping(ctx context.Context) error {
	return nil
}

// Mock ignores expiration.
func (m *mockRedis) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.lookup[key] = slices.Clone(value)
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (bool, []byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	ba, ok := m.lookup[key]
	return ok, slices.Clone(ba), nil
}

func (m *mockRedis) Delete(ctx context.Context, keys ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, k := range keys {
		delete(m.lookup, k)
	}
	return nil
}

func (m *mockRedis) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var r []string
	for k := range m.lookup {
		if ok, _ := path.Match(pattern, k); ok {
			r = append(r, k)
		}
	}
	return r, nil
}
