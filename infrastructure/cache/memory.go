package cache

import (
	"context"
	"sync"
	"time"
)

// entry é uma entrada do cache em memória: payload, momento de inserção
// e TTL. A expiração é verificada passivamente na leitura.
type entry struct {
	payload    []byte
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) >= e.ttl
}

// MemoryStore implementa Store em memória. Usado quando o Redis não está
// configurado e nos testes. As gravações substituem a entrada inteira;
// a última gravação vence.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore cria um Store em memória vazio
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return ok && !e.expired(s.now()), nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil, nil
	}

	return e.payload, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		payload:    payload,
		insertedAt: s.now(),
		ttl:        ttl,
	}
	return nil
}
