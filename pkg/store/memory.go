package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore はプロセス内だけで完結する KeyValue です。テストや一時利用向けなのだ。
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b := v.([]byte)
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.c.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
