package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"sync"
)

// MemoryKVStore はプロセス内メモリに保存するKeyValueStore
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string]string)}
}

var _ repository.KeyValueStore = (*MemoryKVStore)(nil)

func (s *MemoryKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryKVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryKVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryKVStore) Close() error {
	return nil
}
