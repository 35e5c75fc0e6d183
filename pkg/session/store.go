package session

import (
	"context"
	"sync"
)

// Store — key-value хранилище сессии.
//
// Реализации: MemoryStore (по умолчанию), SQLiteStore (переживает
// перезапуск), RedisStore (общая сессия для нескольких терминалов).
// Все реализации безопасны для конкурентного использования.
type Store interface {
	// Get возвращает значение или ошибку, совместимую с ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// Clear удаляет все ключи хранилища.
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore — хранилище в памяти процесса.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", WrapKeyNotFound(key)
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
